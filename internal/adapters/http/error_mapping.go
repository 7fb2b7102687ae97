package httpadapter

import (
	"net/http"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrNotEnoughProposals):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrVendorExists):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrRFPNotFound),
		domain.IsKind(err, domain.ErrVendorNotFound),
		domain.IsKind(err, domain.ErrProposalNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrGenerationFailed),
		domain.IsKind(err, domain.ErrMalformedOutput):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders the error payload. Malformed model output keeps
// the raw response text in the body so the caller can recover the
// fields by hand.
func writeError(w http.ResponseWriter, err error) {
	payload := map[string]any{"error": err.Error()}
	if raw, ok := domain.RawOutput(err); ok {
		payload["raw_output"] = raw
	}
	writeJSON(w, mapErrorToHTTPStatus(err), payload)
}
