package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"google.golang.org/genai"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
		record    bool
	}{
		{"server error", genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}, true, true},
		{"quota", genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"}, true, true},
		{"bad request", genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}, false, false},
		{"cancelled", context.Canceled, false, false},
		{"unknown", errors.New("boom"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := classifyGeminiError(tt.err)
			if class.Retryable != tt.retryable || class.RecordFailure != tt.record {
				t.Fatalf("classify(%v) = %+v, want retryable=%v record=%v", tt.err, class, tt.retryable, tt.record)
			}
		})
	}
}

func TestWrapTemporaryOnlyForRetryable(t *testing.T) {
	serverErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	wrapped := wrapTemporaryIfNeeded("gemini generate", serverErr)
	if !domain.IsKind(wrapped, domain.ErrTemporary) {
		t.Fatalf("503 must wrap as temporary, got %v", wrapped)
	}

	badReq := genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}
	if domain.IsKind(wrapTemporaryIfNeeded("gemini generate", badReq), domain.ErrTemporary) {
		t.Fatal("400 must not wrap as temporary")
	}
}
