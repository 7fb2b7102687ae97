package usecase

import (
	"context"
	"testing"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

func TestStructureTextParsesFencedResponse(t *testing.T) {
	generator := &generatorFake{
		response: "```json\n{\"title\":\"Office laptops\",\"summary\":\"40 units\",\"budget\":50000,\"currency\":\"eur\",\"items\":[{\"name\":\"laptop\",\"quantity\":40,\"specs\":\"16GB RAM\"}]}\n```",
	}
	uc := NewStructureUseCase(&rfpRepoFake{}, generator)

	spec, err := uc.StructureText(context.Background(), "we need 40 laptops with 16GB RAM, budget about 50k euro")
	if err != nil {
		t.Fatalf("StructureText() error = %v", err)
	}
	if spec.Title != "Office laptops" {
		t.Fatalf("unexpected title %q", spec.Title)
	}
	if spec.Currency != "EUR" {
		t.Fatalf("currency must normalize to upper-case 3-letter code, got %q", spec.Currency)
	}
	if len(spec.Items) != 1 || spec.Items[0].Quantity != 40 {
		t.Fatalf("unexpected items %+v", spec.Items)
	}
}

func TestStructureTextEmptyInput(t *testing.T) {
	uc := NewStructureUseCase(&rfpRepoFake{}, &generatorFake{})
	_, err := uc.StructureText(context.Background(), "   ")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestStructureTextMalformedOutputCarriesRaw(t *testing.T) {
	generator := &generatorFake{response: "cannot comply"}
	uc := NewStructureUseCase(&rfpRepoFake{}, generator)

	_, err := uc.StructureText(context.Background(), "need chairs")
	if !domain.IsKind(err, domain.ErrMalformedOutput) {
		t.Fatalf("expected malformed output, got %v", err)
	}
	if raw, ok := domain.RawOutput(err); !ok || raw != "cannot comply" {
		t.Fatalf("raw model text must be preserved, got %q (ok=%v)", raw, ok)
	}
}

func TestStructureByIDSkipsAlreadyStructured(t *testing.T) {
	deliveryReq := "within 30 days"
	rfps := &rfpRepoFake{rfp: &domain.RFP{
		ID:           3,
		Description:  "need chairs",
		Requirements: domain.RequirementSpec{DeliveryRequirements: &deliveryReq},
	}}
	generator := &generatorFake{response: "{}"}

	uc := NewStructureUseCase(rfps, generator)
	if err := uc.StructureByID(context.Background(), 3); err != nil {
		t.Fatalf("StructureByID() error = %v", err)
	}
	if generator.calls != 0 {
		t.Fatalf("already-structured rfp must not trigger generation")
	}
	if rfps.saved != nil {
		t.Fatalf("requirements must not be overwritten")
	}
}

func TestStructureByIDSavesGeneratedSpec(t *testing.T) {
	rfps := &rfpRepoFake{rfp: &domain.RFP{ID: 3, Description: "need chairs"}}
	generator := &generatorFake{response: `{"summary":"chairs","currency":"USD"}`}

	uc := NewStructureUseCase(rfps, generator)
	if err := uc.StructureByID(context.Background(), 3); err != nil {
		t.Fatalf("StructureByID() error = %v", err)
	}
	if rfps.saved == nil || rfps.saved.Summary != "chairs" {
		t.Fatalf("expected saved requirements, got %+v", rfps.saved)
	}
}
