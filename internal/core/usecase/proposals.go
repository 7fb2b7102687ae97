package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
	"github.com/dsokolov/procurement-assistant/internal/core/ports"
)

// ProposalUseCase records a vendor response after the buyer has
// reviewed the extracted fields. The scalar scoring columns are
// snapshotted from the parsed fields at creation time.
type ProposalUseCase struct {
	rfps      ports.RFPRepository
	proposals ports.ProposalRepository
}

func NewProposalUseCase(rfps ports.RFPRepository, proposals ports.ProposalRepository) *ProposalUseCase {
	return &ProposalUseCase{
		rfps:      rfps,
		proposals: proposals,
	}
}

type CreateProposalInput struct {
	RFPID    int64                 `json:"rfp_id"`
	VendorID int64                 `json:"vendor_id"`
	RawText  string                `json:"raw_text"`
	Parsed   domain.ProposalFields `json:"parsed"`
}

func (uc *ProposalUseCase) Create(ctx context.Context, input CreateProposalInput) (*domain.Proposal, error) {
	if input.RFPID == 0 || input.VendorID == 0 || strings.TrimSpace(input.RawText) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "create proposal", fmt.Errorf("rfp_id, vendor_id and raw_text are required"))
	}

	if _, err := uc.rfps.GetByID(ctx, input.RFPID); err != nil {
		return nil, fmt.Errorf("fetch rfp by id: %w", err)
	}

	now := time.Now().UTC()
	proposal := &domain.Proposal{
		RFPID:     input.RFPID,
		VendorID:  input.VendorID,
		RawText:   input.RawText,
		CreatedAt: now,
		UpdatedAt: now,
	}
	proposal.SnapshotFields(input.Parsed)

	if err := uc.proposals.Create(ctx, proposal); err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}
	return proposal, nil
}
