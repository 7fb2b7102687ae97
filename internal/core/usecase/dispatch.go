package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
	"github.com/dsokolov/procurement-assistant/internal/core/ports"
)

// DispatchUseCase sends an RFP invitation email to the selected
// vendors. Delivery is fire-and-forget per recipient: each send
// succeeds or fails independently and the result reports the count of
// successes rather than failing the batch.
type DispatchUseCase struct {
	rfps    ports.RFPRepository
	vendors ports.VendorRepository
	sender  ports.EmailSender
}

func NewDispatchUseCase(
	rfps ports.RFPRepository,
	vendors ports.VendorRepository,
	sender ports.EmailSender,
) *DispatchUseCase {
	return &DispatchUseCase{
		rfps:    rfps,
		vendors: vendors,
		sender:  sender,
	}
}

func (uc *DispatchUseCase) Dispatch(ctx context.Context, rfpID int64, vendorIDs []int64) (*domain.DispatchResult, error) {
	if len(vendorIDs) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "dispatch rfp", fmt.Errorf("no vendors selected"))
	}

	rfp, err := uc.rfps.GetByID(ctx, rfpID)
	if err != nil {
		return nil, fmt.Errorf("fetch rfp by id: %w", err)
	}

	vendors, err := uc.vendors.ListByIDs(ctx, vendorIDs)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	if len(vendors) == 0 {
		return nil, domain.WrapError(domain.ErrVendorNotFound, "dispatch rfp", fmt.Errorf("none of the selected vendors exist"))
	}

	subject := invitationSubject(rfp)
	body := invitationBody(rfp)

	var (
		mu     sync.Mutex
		sent   int
		failed []int64
	)
	var wg sync.WaitGroup
	for _, vendor := range vendors {
		wg.Add(1)
		go func(vendor domain.Vendor) {
			defer wg.Done()
			if err := uc.sender.Send(ctx, vendor.Email, subject, body); err != nil {
				slog.Warn("rfp_invitation_failed",
					"rfp_id", rfp.ID,
					"vendor_id", vendor.ID,
					"error", err,
				)
				mu.Lock()
				failed = append(failed, vendor.ID)
				mu.Unlock()
				return
			}
			mu.Lock()
			sent++
			mu.Unlock()
		}(vendor)
	}
	wg.Wait()

	if err := uc.rfps.UpdateStatus(ctx, rfp.ID, domain.StatusSent); err != nil {
		return nil, fmt.Errorf("mark rfp sent: %w", err)
	}

	return &domain.DispatchResult{
		RFPID:           rfp.ID,
		Requested:       len(vendors),
		Sent:            sent,
		FailedVendorIDs: failed,
	}, nil
}

// The [RFP-<id>] marker in the subject keys vendor replies back to the
// originating RFP.
func invitationSubject(rfp *domain.RFP) string {
	return fmt.Sprintf("Request for Proposal: %s [RFP-%d]", rfp.Title, rfp.ID)
}

func invitationBody(rfp *domain.RFP) string {
	budget := "Not disclosed"
	if rfp.Budget != nil {
		budget = fmt.Sprintf("%.2f %s", *rfp.Budget, rfp.Currency)
	}
	deadline := "ASAP"
	if rfp.DeliveryDeadline != nil {
		deadline = rfp.DeliveryDeadline.Format("2006-01-02")
	}

	description := strings.ReplaceAll(rfp.Description, "\n", "<br/>")

	return fmt.Sprintf(`<h2>%s</h2>
<p>Dear Vendor,</p>
<p>We are inviting you to submit a proposal for the following requirements:</p>
<blockquote style="background: #f9f9f9; padding: 10px; border-left: 4px solid #ccc;">%s</blockquote>
<p><strong>Budget Indication:</strong> %s</p>
<p><strong>Deadline:</strong> %s</p>
<p>Please reply to this email with your proposal details (Price, Delivery timeline, Warranty terms).</p>
<p>Thank you.</p>`,
		rfp.Title, description, budget, deadline)
}
