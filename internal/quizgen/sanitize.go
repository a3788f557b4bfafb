package quizgen

import (
	"strings"

	"vidquiz/internal/domain"
)

// ExtractJSON isolates the JSON payload from a raw model response. Models
// regularly wrap their output in Markdown code fences and surround it with
// prose despite being told not to; both are stripped here. The result is a
// candidate string only: trailing commas or bare keys are the validator's
// problem, not this stage's.
func ExtractJSON(raw string) (string, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	// Prefer the outermost array; fall back to an object for models that
	// answer with {"questions": [...]}.
	if candidate, ok := slice(cleaned, '[', ']'); ok {
		return candidate, nil
	}
	if candidate, ok := slice(cleaned, '{', '}'); ok {
		return candidate, nil
	}
	return "", domain.NewNoJSONFoundError()
}

// slice cuts from the first open to the last close character, discarding any
// surrounding prose.
func slice(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	if start == -1 {
		return "", false
	}
	end := strings.LastIndexByte(s, close)
	if end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}
