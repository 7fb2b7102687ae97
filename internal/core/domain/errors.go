package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRFPNotFound        = errors.New("rfp not found")
	ErrVendorNotFound     = errors.New("vendor not found")
	ErrProposalNotFound   = errors.New("proposal not found")
	ErrNotEnoughProposals = errors.New("not enough proposals")
	ErrInvalidInput       = errors.New("invalid input")
	ErrVendorExists       = errors.New("vendor already exists")
	ErrGenerationFailed   = errors.New("generation failed")
	ErrMalformedOutput    = errors.New("malformed model output")
	ErrTemporary          = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// MalformedOutputError keeps the raw model response next to the parse
// failure so callers can surface it for manual recovery instead of
// dropping it.
type MalformedOutputError struct {
	Operation string
	Raw       string
	Err       error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return ErrMalformedOutput }

// RawOutput extracts the unparseable model text from err, if present.
func RawOutput(err error) (string, bool) {
	var malformed *MalformedOutputError
	if errors.As(err, &malformed) {
		return malformed.Raw, true
	}
	return "", false
}
