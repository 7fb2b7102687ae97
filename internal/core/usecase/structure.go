package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
	"github.com/dsokolov/procurement-assistant/internal/core/ports"
)

// StructureUseCase turns a free-form RFP description into a structured
// requirement spec via the text-generation collaborator.
type StructureUseCase struct {
	rfps      ports.RFPRepository
	generator ports.TextGenerator
}

func NewStructureUseCase(rfps ports.RFPRepository, generator ports.TextGenerator) *StructureUseCase {
	return &StructureUseCase{
		rfps:      rfps,
		generator: generator,
	}
}

func (uc *StructureUseCase) StructureText(ctx context.Context, text string) (domain.RequirementSpec, error) {
	if strings.TrimSpace(text) == "" {
		return domain.RequirementSpec{}, domain.WrapError(domain.ErrInvalidInput, "structure rfp text", fmt.Errorf("text is required"))
	}

	prompt := renderPrompt(rfpStructurePrompt, map[string]string{
		"userInput": text,
	})

	raw, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		return domain.RequirementSpec{}, wrapGeneration("structure rfp text", err)
	}

	var spec domain.RequirementSpec
	if err := decodeModelJSON("structure rfp text", raw, &spec); err != nil {
		return domain.RequirementSpec{}, err
	}
	spec.Currency = normalizeCurrency(spec.Currency)
	return spec, nil
}

// StructureByID fills the stored requirements of an RFP still at the
// empty default. Used by the worker after creation; an RFP that already
// carries requirements is left untouched.
func (uc *StructureUseCase) StructureByID(ctx context.Context, rfpID int64) error {
	rfp, err := uc.rfps.GetByID(ctx, rfpID)
	if err != nil {
		return fmt.Errorf("fetch rfp by id: %w", err)
	}
	if !rfp.Requirements.Empty() {
		return nil
	}

	spec, err := uc.StructureText(ctx, rfp.Description)
	if err != nil {
		return err
	}

	if err := uc.rfps.SaveRequirements(ctx, rfpID, spec); err != nil {
		return fmt.Errorf("save requirements: %w", err)
	}
	return nil
}

// wrapGeneration keeps transport-level temporary failures retryable and
// marks everything else a generation failure.
func wrapGeneration(operation string, err error) error {
	if domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	return domain.WrapError(domain.ErrGenerationFailed, operation, err)
}

// normalizeCurrency upper-cases 3-letter codes and falls back to the
// default for anything else. The code is carried opaquely, never
// converted.
func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return domain.DefaultCurrency
	}
	return code
}
