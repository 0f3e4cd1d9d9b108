package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kapu/content-strategy-go/internal/domain"
	"github.com/kapu/content-strategy-go/pkg/errors"
)

// ValidateStrategy checks that doc has exactly the four strategy keys, none
// null, and a calendar of CalendarDays objects with every entry field set.
// Entries may carry extra fields.
func ValidateStrategy(doc map[string]json.RawMessage) error {
	for _, key := range domain.StrategyKeys {
		raw, ok := doc[key]
		if !ok {
			return errors.NewInvalidOutputError(fmt.Sprintf("missing key %q", key))
		}
		if isNull(raw) {
			return errors.NewInvalidOutputError(fmt.Sprintf("key %q is null", key))
		}
	}
	if len(doc) != len(domain.StrategyKeys) {
		return errors.NewInvalidOutputError(fmt.Sprintf("unexpected keys: %s", strings.Join(extraKeys(doc), ", ")))
	}

	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(doc[domain.KeyStrategyCalendar], &entries); err != nil {
		return errors.NewInvalidOutputError(fmt.Sprintf("%s must be an array of objects", domain.KeyStrategyCalendar))
	}
	if len(entries) != domain.CalendarDays {
		return errors.NewInvalidOutputError(fmt.Sprintf("%s has %d entries, want %d", domain.KeyStrategyCalendar, len(entries), domain.CalendarDays))
	}

	for i, entry := range entries {
		if entry == nil {
			return errors.NewInvalidOutputError(fmt.Sprintf("calendar entry %d is not an object", i+1))
		}
		for _, field := range domain.CalendarEntryKeys {
			raw, ok := entry[field]
			if !ok || isBlank(raw) {
				return errors.NewInvalidOutputError(fmt.Sprintf("calendar entry %d missing %q", i+1, field))
			}
		}
	}
	return nil
}

func extraKeys(doc map[string]json.RawMessage) []string {
	known := make(map[string]struct{}, len(domain.StrategyKeys))
	for _, key := range domain.StrategyKeys {
		known[key] = struct{}{}
	}
	var extra []string
	for key := range doc {
		if _, ok := known[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return extra
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isBlank(raw json.RawMessage) bool {
	if isNull(raw) {
		return true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s) == ""
	}
	return false
}
