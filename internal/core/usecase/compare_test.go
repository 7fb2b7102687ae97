package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

func comparableProposals() []domain.ProposalWithVendor {
	a := domain.Proposal{ID: 1, RFPID: 7, VendorID: 10}
	a.SnapshotFields(domain.ProposalFields{
		TotalPrice:        fptr(100),
		DeliveryDays:      iptr(10),
		WarrantyMonths:    iptr(24),
		CompletenessScore: 1.0,
	})
	b := domain.Proposal{ID: 2, RFPID: 7, VendorID: 11}
	b.SnapshotFields(domain.ProposalFields{
		TotalPrice:        fptr(120),
		DeliveryDays:      iptr(10),
		WarrantyMonths:    iptr(12),
		CompletenessScore: 1.0,
	})
	return []domain.ProposalWithVendor{
		{Proposal: a, Vendor: domain.Vendor{ID: 10, Name: "Acme Supply"}},
		{Proposal: b, Vendor: domain.Vendor{ID: 11, Name: "Globex Corp"}},
	}
}

func TestCompareScoresAndParsesRecommendation(t *testing.T) {
	rfps := &rfpRepoFake{rfp: &domain.RFP{ID: 7, Title: "Laptops", Description: "40 laptops"}}
	proposals := &proposalRepoFake{list: comparableProposals()}
	generator := &generatorFake{
		response: "```json\n{\"recommended_vendor_id\": 10, \"reasoning\": \"cheapest and best warranty\", \"pros_cons\": {\"Acme Supply\": {\"pros\": [\"price\"], \"cons\": []}}}\n```",
	}

	uc := NewCompareUseCase(rfps, proposals, generator)
	report, err := uc.Compare(context.Background(), 7)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if len(report.Proposals) != 2 {
		t.Fatalf("expected 2 scored proposals, got %d", len(report.Proposals))
	}
	if report.Proposals[0].CalculatedScore != 100 {
		t.Fatalf("proposal A: expected score 100, got %d", report.Proposals[0].CalculatedScore)
	}
	if report.Proposals[1].CalculatedScore != 88 {
		t.Fatalf("proposal B: expected score 88, got %d", report.Proposals[1].CalculatedScore)
	}
	if report.Proposals[1].Breakdown.Warranty != 0.8 {
		t.Fatalf("expected warranty sub-score surfaced, got %f", report.Proposals[1].Breakdown.Warranty)
	}

	if report.Recommendation.RecommendedVendorID == nil || *report.Recommendation.RecommendedVendorID != 10 {
		t.Fatalf("expected recommended vendor 10, got %v", report.Recommendation.RecommendedVendorID)
	}
	if report.Recommendation.Fallback() {
		t.Fatalf("did not expect fallback recommendation")
	}
}

func TestComparePromptCarriesParsedDetail(t *testing.T) {
	list := comparableProposals()
	caveats := "lead time excludes customs"
	list[0].Parsed.Caveats = &caveats

	rfps := &rfpRepoFake{rfp: &domain.RFP{ID: 7, Title: "Laptops"}}
	generator := &generatorFake{response: `{"recommended_vendor_id": 10, "reasoning": "ok"}`}
	uc := NewCompareUseCase(rfps, &proposalRepoFake{list: list}, generator)

	if _, err := uc.Compare(context.Background(), 7); err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if len(generator.prompts) != 1 {
		t.Fatalf("expected one generation call, got %d", len(generator.prompts))
	}
	prompt := generator.prompts[0]
	if !strings.Contains(prompt, "Laptops") || !strings.Contains(prompt, caveats) {
		t.Fatalf("prompt must carry rfp title and parsed caveats: %s", prompt)
	}
}

func TestCompareSingleProposalSkipsGeneration(t *testing.T) {
	rfps := &rfpRepoFake{rfp: &domain.RFP{ID: 7}}
	proposals := &proposalRepoFake{list: comparableProposals()[:1]}
	generator := &generatorFake{response: "{}"}

	uc := NewCompareUseCase(rfps, proposals, generator)
	report, err := uc.Compare(context.Background(), 7)
	if !domain.IsKind(err, domain.ErrNotEnoughProposals) {
		t.Fatalf("expected precondition failure, got %v", err)
	}
	if generator.calls != 0 {
		t.Fatalf("generation must not run for a single proposal")
	}
	if report == nil || len(report.Proposals) != 1 {
		t.Fatalf("precondition failure must still carry the proposal list")
	}
}

func TestCompareRFPNotFound(t *testing.T) {
	uc := NewCompareUseCase(&rfpRepoFake{}, &proposalRepoFake{}, &generatorFake{})
	_, err := uc.Compare(context.Background(), 99)
	if !domain.IsKind(err, domain.ErrRFPNotFound) {
		t.Fatalf("expected rfp not found, got %v", err)
	}
}

func TestCompareUnparseableRecommendationFallsBack(t *testing.T) {
	rfps := &rfpRepoFake{rfp: &domain.RFP{ID: 7}}
	proposals := &proposalRepoFake{list: comparableProposals()}
	generator := &generatorFake{response: "Vendor Acme looks best to me, overall."}

	uc := NewCompareUseCase(rfps, proposals, generator)
	report, err := uc.Compare(context.Background(), 7)
	if err != nil {
		t.Fatalf("unparseable recommendation must not fail the comparison: %v", err)
	}
	if !report.Recommendation.Fallback() {
		t.Fatalf("expected fallback recommendation, got %+v", report.Recommendation)
	}
	if report.Recommendation.RecommendedVendorID != nil {
		t.Fatalf("fallback must not name a vendor")
	}
	if report.Recommendation.Reasoning == "" {
		t.Fatalf("fallback must explain itself")
	}
	if report.Proposals[0].CalculatedScore != 100 {
		t.Fatalf("deterministic scores must survive the fallback")
	}
}

func TestCompareGenerationCallFailurePropagates(t *testing.T) {
	rfps := &rfpRepoFake{rfp: &domain.RFP{ID: 7}}
	proposals := &proposalRepoFake{list: comparableProposals()}
	generator := &generatorFake{err: errors.New("model offline")}

	uc := NewCompareUseCase(rfps, proposals, generator)
	_, err := uc.Compare(context.Background(), 7)
	if !domain.IsKind(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected generation failure, got %v", err)
	}
}
