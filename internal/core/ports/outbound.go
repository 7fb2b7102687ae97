package ports

import (
	"context"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

// RFPRepository persists and reads RFP state.
type RFPRepository interface {
	Create(ctx context.Context, rfp *domain.RFP) error
	GetByID(ctx context.Context, id int64) (*domain.RFP, error)
	List(ctx context.Context) ([]domain.RFPSummary, error)
	Update(ctx context.Context, id int64, update domain.RFPUpdate) (*domain.RFP, error)
	SaveRequirements(ctx context.Context, id int64, spec domain.RequirementSpec) error
	UpdateStatus(ctx context.Context, id int64, status domain.RFPStatus) error
}

// VendorRepository persists and reads vendors.
type VendorRepository interface {
	Create(ctx context.Context, vendor *domain.Vendor) error
	GetByEmail(ctx context.Context, email string) (*domain.Vendor, error)
	List(ctx context.Context) ([]domain.Vendor, error)
	ListByIDs(ctx context.Context, ids []int64) ([]domain.Vendor, error)
}

// ProposalRepository persists proposals and reads them joined with
// their vendor for comparison.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *domain.Proposal) error
	ListByRFP(ctx context.Context, rfpID int64) ([]domain.ProposalWithVendor, error)
}

// TextGenerator is the external text-generation collaborator. Responses
// are raw model text; callers must clean and validate them.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmailSender dispatches a single message. Implementations without
// configured credentials degrade to a logged no-op.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// MessageQueue publishes/consumes RFP structuring events.
type MessageQueue interface {
	PublishRFPCreated(ctx context.Context, rfpID int64) error
	SubscribeRFPCreated(ctx context.Context, handler func(context.Context, int64) error) error
}
