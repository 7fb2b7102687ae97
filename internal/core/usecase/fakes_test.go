package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

type rfpRepoFake struct {
	rfp     *domain.RFP
	created *domain.RFP
	saved   *domain.RequirementSpec
	updated *domain.RFPUpdate
	status  domain.RFPStatus
	err     error
}

func (f *rfpRepoFake) Create(_ context.Context, rfp *domain.RFP) error {
	if f.err != nil {
		return f.err
	}
	rfp.ID = 1
	f.created = rfp
	return nil
}

func (f *rfpRepoFake) GetByID(_ context.Context, id int64) (*domain.RFP, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.rfp == nil {
		return nil, domain.WrapError(domain.ErrRFPNotFound, "get rfp", fmt.Errorf("id=%d", id))
	}
	return f.rfp, nil
}

func (f *rfpRepoFake) List(context.Context) ([]domain.RFPSummary, error) { return nil, f.err }

func (f *rfpRepoFake) Update(_ context.Context, _ int64, update domain.RFPUpdate) (*domain.RFP, error) {
	f.updated = &update
	return f.rfp, f.err
}

func (f *rfpRepoFake) SaveRequirements(_ context.Context, _ int64, spec domain.RequirementSpec) error {
	f.saved = &spec
	return f.err
}

func (f *rfpRepoFake) UpdateStatus(_ context.Context, _ int64, status domain.RFPStatus) error {
	f.status = status
	return f.err
}

type proposalRepoFake struct {
	list    []domain.ProposalWithVendor
	created *domain.Proposal
	err     error
}

func (f *proposalRepoFake) Create(_ context.Context, proposal *domain.Proposal) error {
	if f.err != nil {
		return f.err
	}
	proposal.ID = int64(len(f.list) + 1)
	f.created = proposal
	return nil
}

func (f *proposalRepoFake) ListByRFP(context.Context, int64) ([]domain.ProposalWithVendor, error) {
	return f.list, f.err
}

type vendorRepoFake struct {
	vendors []domain.Vendor
	byEmail *domain.Vendor
	err     error
}

func (f *vendorRepoFake) Create(_ context.Context, vendor *domain.Vendor) error {
	if f.err != nil {
		return f.err
	}
	vendor.ID = int64(len(f.vendors) + 1)
	f.vendors = append(f.vendors, *vendor)
	return nil
}

func (f *vendorRepoFake) GetByEmail(_ context.Context, email string) (*domain.Vendor, error) {
	if f.byEmail != nil {
		return f.byEmail, nil
	}
	return nil, domain.WrapError(domain.ErrVendorNotFound, "get vendor", fmt.Errorf("email=%s", email))
}

func (f *vendorRepoFake) List(context.Context) ([]domain.Vendor, error) {
	return f.vendors, f.err
}

func (f *vendorRepoFake) ListByIDs(context.Context, []int64) ([]domain.Vendor, error) {
	return f.vendors, f.err
}

type generatorFake struct {
	response string
	err      error
	prompts  []string
	calls    int
}

func (f *generatorFake) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type senderFake struct {
	mu     sync.Mutex
	sent   []string
	failTo map[string]error
}

func (f *senderFake) Send(_ context.Context, to, _, _ string) error {
	if err, ok := f.failTo[to]; ok {
		return err
	}
	f.mu.Lock()
	f.sent = append(f.sent, to)
	f.mu.Unlock()
	return nil
}

type queueFake struct {
	published []int64
	err       error
}

func (f *queueFake) PublishRFPCreated(_ context.Context, rfpID int64) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, rfpID)
	return nil
}

func (f *queueFake) SubscribeRFPCreated(context.Context, func(context.Context, int64) error) error {
	return nil
}
