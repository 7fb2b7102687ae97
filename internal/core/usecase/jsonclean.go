package usecase

import (
	"encoding/json"
	"strings"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

// StripCodeFences removes a wrapping markdown code fence from a model
// response, with or without a language tag, and trims surrounding
// whitespace. Unfenced input passes through trimmed.
func StripCodeFences(raw string) string {
	out := strings.TrimSpace(raw)
	if !strings.HasPrefix(out, "```") {
		return out
	}

	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSpace(out)
	if idx := strings.LastIndex(out, "```"); idx != -1 {
		out = out[:idx]
	}
	return strings.TrimSpace(out)
}

// decodeModelJSON cleans a raw model response and decodes it into out.
// Failures carry the uncleaned response so callers can surface it for
// manual recovery.
func decodeModelJSON(operation, raw string, out any) error {
	cleaned := StripCodeFences(raw)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &domain.MalformedOutputError{Operation: operation, Raw: raw, Err: err}
	}
	return nil
}
