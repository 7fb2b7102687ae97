package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

type ProposalRepository struct {
	db *sql.DB
}

func NewProposalRepository(db *sql.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) Create(ctx context.Context, proposal *domain.Proposal) error {
	parsed, err := domain.EncodeProposalFields(proposal.Parsed)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, `
INSERT INTO proposals (
	rfp_id, vendor_id, raw_text, parsed_data, total_price, currency, delivery_days, warranty_months, payment_terms, completeness_score, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
RETURNING id
`,
		proposal.RFPID, proposal.VendorID, proposal.RawText, parsed,
		proposal.TotalPrice, proposal.Currency, proposal.DeliveryDays, proposal.WarrantyMonths,
		proposal.PaymentTerms, proposal.CompletenessScore, proposal.CreatedAt, proposal.UpdatedAt,
	).Scan(&proposal.ID)
	if err != nil {
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

// ListByRFP returns the RFP's proposals joined with their vendor,
// oldest first so comparison output is stable across requests.
func (r *ProposalRepository) ListByRFP(ctx context.Context, rfpID int64) ([]domain.ProposalWithVendor, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT
	p.id, p.rfp_id, p.vendor_id, p.raw_text, p.parsed_data,
	p.total_price, p.currency, p.delivery_days, p.warranty_months, p.payment_terms, p.completeness_score,
	p.created_at, p.updated_at,
	v.id, v.name, v.email, v.contact_info, v.notes, v.created_at, v.updated_at
FROM proposals p
JOIN vendors v ON v.id = p.vendor_id
WHERE p.rfp_id = $1
ORDER BY p.created_at ASC
`, rfpID)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ProposalWithVendor, 0)
	for rows.Next() {
		var item domain.ProposalWithVendor
		var parsed string
		err := rows.Scan(
			&item.ID, &item.RFPID, &item.VendorID, &item.RawText, &parsed,
			&item.TotalPrice, &item.Currency, &item.DeliveryDays, &item.WarrantyMonths,
			&item.PaymentTerms, &item.CompletenessScore,
			&item.CreatedAt, &item.UpdatedAt,
			&item.Vendor.ID, &item.Vendor.Name, &item.Vendor.Email, &item.Vendor.ContactInfo,
			&item.Vendor.Notes, &item.Vendor.CreatedAt, &item.Vendor.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		if item.Parsed, err = domain.DecodeProposalFields(parsed); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proposals: %w", err)
	}
	return out, nil
}
