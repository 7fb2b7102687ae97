package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
	"github.com/dsokolov/procurement-assistant/internal/core/ports"
)

// CompareUseCase builds the comparison report for an RFP: deterministic
// scores for every proposal plus a qualitative recommendation from the
// text-generation collaborator.
type CompareUseCase struct {
	rfps      ports.RFPRepository
	proposals ports.ProposalRepository
	generator ports.TextGenerator
}

func NewCompareUseCase(
	rfps ports.RFPRepository,
	proposals ports.ProposalRepository,
	generator ports.TextGenerator,
) *CompareUseCase {
	return &CompareUseCase{
		rfps:      rfps,
		proposals: proposals,
		generator: generator,
	}
}

// Compare fails with a precondition error when the RFP has fewer than
// two proposals; the returned report still carries the unscored list so
// callers can render it. Generation call failures propagate, but a
// response that cannot be parsed degrades to the fallback
// recommendation while the deterministic scores are preserved.
func (uc *CompareUseCase) Compare(ctx context.Context, rfpID int64) (*domain.ComparisonReport, error) {
	rfp, err := uc.rfps.GetByID(ctx, rfpID)
	if err != nil {
		return nil, fmt.Errorf("fetch rfp by id: %w", err)
	}

	proposals, err := uc.proposals.ListByRFP(ctx, rfpID)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}

	if len(proposals) < 2 {
		report := &domain.ComparisonReport{Proposals: unscored(proposals)}
		return report, domain.WrapError(
			domain.ErrNotEnoughProposals,
			"compare proposals",
			fmt.Errorf("rfp %d has %d proposal(s), need at least 2", rfpID, len(proposals)),
		)
	}

	scored := scoreAll(rfp, proposals)

	prompt, err := buildComparisonPrompt(rfp, scored)
	if err != nil {
		return nil, err
	}

	raw, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, wrapGeneration("compare proposals", err)
	}

	report := &domain.ComparisonReport{
		Proposals:      scored,
		Recommendation: parseRecommendation(raw),
	}
	return report, nil
}

// scoreAll scores every proposal against the full sibling set.
func scoreAll(rfp *domain.RFP, proposals []domain.ProposalWithVendor) []domain.ScoredProposal {
	siblings := make([]domain.Proposal, len(proposals))
	for i, p := range proposals {
		siblings[i] = p.Proposal
	}

	criteria := rfp.Criteria()
	out := make([]domain.ScoredProposal, len(proposals))
	for i, p := range proposals {
		breakdown := ScoreProposal(p.Proposal, criteria, siblings)
		out[i] = domain.ScoredProposal{
			ProposalWithVendor: p,
			CalculatedScore:    breakdown.Total,
			Breakdown:          breakdown,
		}
	}
	return out
}

func unscored(proposals []domain.ProposalWithVendor) []domain.ScoredProposal {
	out := make([]domain.ScoredProposal, len(proposals))
	for i, p := range proposals {
		out[i] = domain.ScoredProposal{ProposalWithVendor: p}
	}
	return out
}

func buildComparisonPrompt(rfp *domain.RFP, scored []domain.ScoredProposal) (string, error) {
	rfpSummary := map[string]any{
		"title":        rfp.Title,
		"description":  rfp.Description,
		"budget":       rfp.Budget,
		"deadline":     rfp.DeliveryDeadline,
		"requirements": rfp.Requirements,
	}

	// The model sees the full parsed fields, including the qualitative
	// detail the deterministic engine discards.
	proposalsSummary := make([]map[string]any, len(scored))
	for i, p := range scored {
		proposalsSummary[i] = map[string]any{
			"id":        p.ID,
			"vendor_id": p.VendorID,
			"vendor":    p.Vendor.Name,
			"price":     p.TotalPrice,
			"delivery":  p.DeliveryDays,
			"warranty":  p.WarrantyMonths,
			"score":     p.CalculatedScore,
			"notes":     p.Parsed,
		}
	}

	rfpJSON, err := json.Marshal(rfpSummary)
	if err != nil {
		return "", fmt.Errorf("marshal rfp summary: %w", err)
	}
	proposalsJSON, err := json.Marshal(proposalsSummary)
	if err != nil {
		return "", fmt.Errorf("marshal proposals summary: %w", err)
	}

	return renderPrompt(comparisonPrompt, map[string]string{
		"rfpData":       string(rfpJSON),
		"proposalsData": string(proposalsJSON),
	}), nil
}

// parseRecommendation never fails: an unparseable response yields the
// neutral fallback so a degraded report beats a failed request.
func parseRecommendation(raw string) domain.Recommendation {
	var recommendation domain.Recommendation
	if err := decodeModelJSON("parse recommendation", raw, &recommendation); err != nil {
		slog.Warn("recommendation_fallback", "error", err)
		return domain.FallbackRecommendation()
	}
	return recommendation
}
