package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kapu/content-strategy-go/internal/constants"
	"github.com/kapu/content-strategy-go/internal/domain"
	"github.com/kapu/content-strategy-go/internal/util"
	"github.com/kapu/content-strategy-go/pkg/errors"
	"go.uber.org/zap"
)

const responsePreviewRunes = 200

// Synthesizer turns an assembled prompt into a strategy document with a
// single provider call. There is no retry and no fallback provider.
type Synthesizer struct {
	provider JSONProvider
	timeout  time.Duration
	logger   *zap.Logger
}

func NewSynthesizer(provider JSONProvider, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		provider: provider,
		timeout:  constants.APIConfig.LLMTimeout,
		logger:   logger,
	}
}

// WithTimeout bounds each provider call. Zero disables the bound.
func (s *Synthesizer) WithTimeout(timeout time.Duration) *Synthesizer {
	s.timeout = timeout
	return s
}

// Synthesize calls the provider and decodes its JSON object. Transport
// failures and unparseable bodies become a SynthesisError; a parsed body
// with the wrong shape becomes an InvalidOutputError.
func (s *Synthesizer) Synthesize(ctx context.Context, prompt string) (*domain.StrategyResult, error) {
	if s.provider == nil {
		return nil, errors.NewSynthesisError("", fmt.Errorf("model provider is not configured"))
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	name := s.provider.Name()
	result, err := s.provider.Generate(ctx, prompt, &GenerateOptions{Preset: PresetBalanced})
	if err != nil {
		s.logger.Error("Strategy synthesis failed",
			zap.String("provider", name),
			zap.Error(err),
		)
		return nil, errors.NewSynthesisError(name, err)
	}

	raw, doc, err := decodeObject(result.Text)
	if err != nil {
		s.logger.Error("Failed to decode synthesis response",
			zap.String("provider", name),
			zap.Error(err),
			zap.String("response_preview", util.TruncateString(result.Text, responsePreviewRunes)),
		)
		return nil, errors.NewSynthesisError(name, err)
	}

	if err := ValidateStrategy(doc); err != nil {
		s.logger.Warn("Synthesis output failed validation",
			zap.String("provider", name),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Strategy synthesized",
		zap.String("provider", name),
		zap.String("model", result.Model),
		zap.Int("bytes", len(raw)),
	)

	return &domain.StrategyResult{
		Raw:      raw,
		Document: doc,
		Provider: name,
		Model:    result.Model,
	}, nil
}

// decodeObject strips markdown fences and parses text as a JSON object.
func decodeObject(text string) (json.RawMessage, map[string]json.RawMessage, error) {
	cleaned := stripCodeFence(text)
	if cleaned == "" {
		return nil, nil, fmt.Errorf("empty response")
	}

	raw := []byte(cleaned)
	if !json.Valid(raw) {
		return nil, nil, fmt.Errorf("response is not valid JSON")
	}
	if !bytes.HasPrefix(raw, []byte("{")) {
		return nil, nil, fmt.Errorf("response is not a JSON object")
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	return json.RawMessage(raw), doc, nil
}

func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}
