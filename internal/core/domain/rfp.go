package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type RFPStatus string

const (
	StatusDraft      RFPStatus = "DRAFT"
	StatusSent       RFPStatus = "SENT"
	StatusEvaluation RFPStatus = "EVALUATION"
	StatusAwarded    RFPStatus = "AWARDED"
)

const DefaultCurrency = "USD"

func (s RFPStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusEvaluation, StatusAwarded:
		return true
	}
	return false
}

type RFP struct {
	ID               int64           `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Budget           *float64        `json:"budget"`
	Currency         string          `json:"currency"`
	DeliveryDeadline *time.Time      `json:"delivery_deadline"`
	Status           RFPStatus       `json:"status"`
	Requirements     RequirementSpec `json:"requirements"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// RFPSummary is the list-view projection with the proposal count joined in.
type RFPSummary struct {
	RFP
	ProposalCount int `json:"proposal_count"`
}

// RFPUpdate carries a partial update; nil fields are left untouched.
type RFPUpdate struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	Budget           *float64   `json:"budget"`
	Currency         *string    `json:"currency"`
	DeliveryDeadline *time.Time `json:"delivery_deadline"`
	Status           *RFPStatus `json:"status"`
	Requirements     *RequirementSpec
}

// RFPCriteria is the per-RFP input to the scoring engine.
type RFPCriteria struct {
	Budget           *float64
	DeliveryDeadline *time.Time
}

func (r *RFP) Criteria() RFPCriteria {
	return RFPCriteria{
		Budget:           r.Budget,
		DeliveryDeadline: r.DeliveryDeadline,
	}
}

// RequirementSpec is the structured form of an RFP description. It is
// persisted as JSON text; EncodeRequirements/DecodeRequirements are the
// single serialization boundary for that column.
type RequirementSpec struct {
	Title                string            `json:"title,omitempty"`
	Summary              string            `json:"summary,omitempty"`
	Budget               *float64          `json:"budget"`
	Currency             string            `json:"currency,omitempty"`
	DeliveryRequirements *string           `json:"delivery_requirements"`
	Items                []RequirementItem `json:"items,omitempty"`
	PaymentTerms         *string           `json:"payment_terms"`
	WarrantyRequirements *string           `json:"warranty_requirements"`
}

type RequirementItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Specs    string  `json:"specs"`
}

func (s RequirementSpec) Empty() bool {
	return s.Title == "" && s.Summary == "" && s.Budget == nil &&
		s.Currency == "" && s.DeliveryRequirements == nil &&
		len(s.Items) == 0 && s.PaymentTerms == nil && s.WarrantyRequirements == nil
}

// EncodeRequirements renders the spec as the stored JSON text. The empty
// spec encodes to "{}" so the column invariant (always valid JSON) holds
// even before extraction has run.
func EncodeRequirements(spec RequirementSpec) (string, error) {
	if spec.Empty() {
		return "{}", nil
	}
	raw, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("encode requirements: %w", err)
	}
	return string(raw), nil
}

func DecodeRequirements(raw string) (RequirementSpec, error) {
	if raw == "" || raw == "{}" {
		return RequirementSpec{}, nil
	}
	var spec RequirementSpec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return RequirementSpec{}, fmt.Errorf("decode requirements: %w", err)
	}
	return spec, nil
}
