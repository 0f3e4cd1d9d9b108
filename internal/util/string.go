package util

import "strings"

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// JoinOrFallback joins non-blank items with sep, or returns fallback when
// nothing remains.
func JoinOrFallback(items []string, sep, fallback string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) == 0 {
		return fallback
	}
	return strings.Join(kept, sep)
}

// TrimSubredditPrefix turns "r/fitness" or "/r/fitness/" into "fitness".
func TrimSubredditPrefix(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if strings.HasPrefix(strings.ToLower(name), "r/") {
		name = name[2:]
	}
	return strings.Trim(name, "/")
}
