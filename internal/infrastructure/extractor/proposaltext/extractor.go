// Package proposaltext turns an uploaded proposal document into the
// plain text fed to field extraction. Vendors send either text bodies
// (pasted emails) or PDF attachments.
package proposaltext

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

func Extract(filename, mimeType string, raw []byte) (string, error) {
	if isPDF(filename, mimeType, raw) {
		return extractPDF(raw)
	}

	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract proposal text",
			fmt.Errorf("unsupported binary format: %s", filename))
	}
	return strings.TrimSpace(string(raw)), nil
}

func isPDF(filename, mimeType string, raw []byte) bool {
	if strings.EqualFold(mimeType, "application/pdf") {
		return true
	}
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return true
	}
	return bytes.HasPrefix(raw, []byte("%PDF-"))
}

func extractPDF(raw []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs instead of
	// returning an error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.WrapError(domain.ErrInvalidInput, "extract proposal text",
				fmt.Errorf("malformed pdf: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract proposal text",
			fmt.Errorf("open pdf: %w", err))
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract proposal text",
			fmt.Errorf("read pdf text: %w", err))
	}

	collected, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("collect pdf text: %w", err)
	}
	return strings.TrimSpace(string(collected)), nil
}
