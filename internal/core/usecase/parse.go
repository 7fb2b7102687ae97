package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
	"github.com/dsokolov/procurement-assistant/internal/core/ports"
)

// ParseUseCase extracts structured fields from raw vendor proposal
// text, scoped to the owning RFP so the model knows which items the
// buyer asked for.
type ParseUseCase struct {
	rfps      ports.RFPRepository
	generator ports.TextGenerator
}

func NewParseUseCase(rfps ports.RFPRepository, generator ports.TextGenerator) *ParseUseCase {
	return &ParseUseCase{
		rfps:      rfps,
		generator: generator,
	}
}

func (uc *ParseUseCase) ParseVendorText(ctx context.Context, rfpID int64, vendorText string) (domain.ProposalFields, error) {
	if strings.TrimSpace(vendorText) == "" {
		return domain.ProposalFields{}, domain.WrapError(domain.ErrInvalidInput, "parse vendor text", fmt.Errorf("vendor text is required"))
	}

	rfp, err := uc.rfps.GetByID(ctx, rfpID)
	if err != nil {
		return domain.ProposalFields{}, fmt.Errorf("fetch rfp by id: %w", err)
	}

	rfpContext, err := buildRFPContext(rfp)
	if err != nil {
		return domain.ProposalFields{}, err
	}

	prompt := renderPrompt(proposalParsePrompt, map[string]string{
		"rfpContext": rfpContext,
		"vendorText": vendorText,
	})

	raw, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		return domain.ProposalFields{}, wrapGeneration("parse vendor text", err)
	}

	var fields domain.ProposalFields
	if err := decodeModelJSON("parse vendor text", raw, &fields); err != nil {
		return domain.ProposalFields{}, err
	}

	normalizeProposalFields(&fields)
	return fields, nil
}

func buildRFPContext(rfp *domain.RFP) (string, error) {
	payload := map[string]any{
		"description": rfp.Description,
		"budget":      rfp.Budget,
		"currency":    rfp.Currency,
	}
	if !rfp.Requirements.Empty() {
		payload["structuredDetails"] = rfp.Requirements
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal rfp context: %w", err)
	}
	return string(raw), nil
}

func normalizeProposalFields(fields *domain.ProposalFields) {
	if fields.Currency != nil {
		code := normalizeCurrency(*fields.Currency)
		fields.Currency = &code
	}
	if fields.CompletenessScore < 0 {
		fields.CompletenessScore = 0
	}
	if fields.CompletenessScore > 1 {
		fields.CompletenessScore = 1
	}
}
