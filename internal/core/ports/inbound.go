package ports

import (
	"context"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

// ProposalComparer is the inbound contract for the comparison report.
type ProposalComparer interface {
	Compare(ctx context.Context, rfpID int64) (*domain.ComparisonReport, error)
}

// RFPStructurer converts free-form requirement text into a structured
// requirement spec.
type RFPStructurer interface {
	StructureText(ctx context.Context, text string) (domain.RequirementSpec, error)
	StructureByID(ctx context.Context, rfpID int64) error
}

// ProposalParser extracts structured fields from vendor proposal text
// scoped to the owning RFP's context.
type ProposalParser interface {
	ParseVendorText(ctx context.Context, rfpID int64, vendorText string) (domain.ProposalFields, error)
}

// RFPDispatcher sends an RFP invitation to the selected vendors.
type RFPDispatcher interface {
	Dispatch(ctx context.Context, rfpID int64, vendorIDs []int64) (*domain.DispatchResult, error)
}
