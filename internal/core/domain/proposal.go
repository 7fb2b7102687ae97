package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type Proposal struct {
	ID       int64  `json:"id"`
	RFPID    int64  `json:"rfp_id"`
	VendorID int64  `json:"vendor_id"`
	RawText  string `json:"raw_text"`

	// Parsed is the full extraction result as stored. The scalar fields
	// below are a snapshot of it taken at creation time and are the
	// authoritative scoring inputs; the two may drift if Parsed is edited
	// later and are deliberately not re-synced.
	Parsed ProposalFields `json:"parsed"`

	TotalPrice        *float64 `json:"total_price"`
	Currency          string   `json:"currency"`
	DeliveryDays      *int     `json:"delivery_days"`
	WarrantyMonths    *int     `json:"warranty_months"`
	PaymentTerms      *string  `json:"payment_terms"`
	CompletenessScore *float64 `json:"completeness_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProposalFields is the structured form of a vendor's proposal text,
// produced by field extraction against the owning RFP's context.
type ProposalFields struct {
	TotalPrice        *float64 `json:"totalPrice"`
	Currency          *string  `json:"currency"`
	DeliveryDays      *int     `json:"deliveryDays"`
	WarrantyMonths    *int     `json:"warrantyMonths"`
	PaymentTerms      *string  `json:"paymentTerms"`
	CompletenessScore float64  `json:"completenessScore"`
	Risks             []string `json:"risks,omitempty"`
	Caveats           *string  `json:"caveats"`
}

// SnapshotFields denormalizes the parsed blob into the scalar columns
// used for scoring without re-parsing.
func (p *Proposal) SnapshotFields(fields ProposalFields) {
	p.Parsed = fields
	p.TotalPrice = fields.TotalPrice
	p.Currency = DefaultCurrency
	if fields.Currency != nil && *fields.Currency != "" {
		p.Currency = *fields.Currency
	}
	p.DeliveryDays = fields.DeliveryDays
	p.WarrantyMonths = fields.WarrantyMonths
	p.PaymentTerms = fields.PaymentTerms
	score := fields.CompletenessScore
	p.CompletenessScore = &score
}

// ProposalWithVendor joins a proposal with its owning vendor for the
// comparison surface.
type ProposalWithVendor struct {
	Proposal
	Vendor Vendor `json:"vendor"`
}

func EncodeProposalFields(fields ProposalFields) (string, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode proposal fields: %w", err)
	}
	return string(raw), nil
}

func DecodeProposalFields(raw string) (ProposalFields, error) {
	if raw == "" || raw == "{}" {
		return ProposalFields{}, nil
	}
	var fields ProposalFields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return ProposalFields{}, fmt.Errorf("decode proposal fields: %w", err)
	}
	return fields, nil
}
