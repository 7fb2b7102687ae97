package usecase

import (
	"math"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

// Sub-score weights, summing to 1.0.
const (
	weightPrice        = 0.50
	weightDelivery     = 0.20
	weightWarranty     = 0.20
	weightCompleteness = 0.10
)

// Baseline used for the delivery axis when no sibling states a delivery
// time at all.
const defaultDeliveryBaselineDays = 30

// ScoreProposal computes a proposal's 0-100 score against its full
// sibling set (all proposals for the same RFP, the proposal included).
// Pure and total: missing inputs degrade to 0 on the affected axis, the
// function itself never fails and is safe to call concurrently.
//
// TODO: weight the price axis against criteria.Budget and the delivery
// axis against criteria.DeliveryDeadline once budget-aware scoring is
// specified; both are accepted here so the contract does not change
// when that lands.
func ScoreProposal(p domain.Proposal, criteria domain.RFPCriteria, siblings []domain.Proposal) domain.ScoreBreakdown {
	_ = criteria

	breakdown := domain.ScoreBreakdown{
		Price:        priceSubScore(p, siblings),
		Delivery:     deliverySubScore(p, siblings),
		Warranty:     warrantySubScore(p.WarrantyMonths),
		Completeness: completenessSubScore(p.CompletenessScore),
	}

	total := breakdown.Price*weightPrice +
		breakdown.Delivery*weightDelivery +
		breakdown.Warranty*weightWarranty +
		breakdown.Completeness*weightCompleteness

	breakdown.Total = int(math.Round(total * 100))
	return breakdown
}

// priceSubScore rewards the cheapest sibling with 1.0 and scales the
// rest down proportionally. A proposal without a stated price scores 0
// regardless of siblings.
func priceSubScore(p domain.Proposal, siblings []domain.Proposal) float64 {
	minPrice := 0.0
	found := false
	for _, sibling := range siblings {
		if sibling.TotalPrice == nil {
			continue
		}
		// A stated price of 0 participates in the minimum; it must not
		// be mistaken for "no price seen yet".
		if !found || *sibling.TotalPrice < minPrice {
			minPrice = *sibling.TotalPrice
			found = true
		}
	}

	if p.TotalPrice == nil || !found || minPrice <= 0 {
		return 0
	}
	return minPrice / *p.TotalPrice
}

// deliverySubScore is 1.0 for the fastest sibling and decays toward 0
// as delivery slows. Without any stated sibling delivery the baseline
// defaults to 30 days.
func deliverySubScore(p domain.Proposal, siblings []domain.Proposal) float64 {
	fastest := defaultDeliveryBaselineDays
	found := false
	for _, sibling := range siblings {
		if sibling.DeliveryDays == nil {
			continue
		}
		// Same as the price axis: a stated 0-day delivery counts toward
		// the minimum. The 30-day baseline applies only when no sibling
		// states a delivery time at all.
		if !found || *sibling.DeliveryDays < fastest {
			fastest = *sibling.DeliveryDays
			found = true
		}
	}

	if p.DeliveryDays == nil {
		return 0
	}
	if *p.DeliveryDays <= fastest {
		return 1.0
	}
	return float64(fastest) / float64(*p.DeliveryDays)
}

// warrantySubScore is a step function on warranty months.
func warrantySubScore(months *int) float64 {
	if months == nil || *months <= 0 {
		return 0
	}
	switch {
	case *months >= 24:
		return 1.0
	case *months >= 12:
		return 0.8
	case *months >= 6:
		return 0.5
	default:
		return 0.2
	}
}

// completenessSubScore trusts the extraction step's signal verbatim,
// clamped to [0,1].
func completenessSubScore(score *float64) float64 {
	if score == nil {
		return 0
	}
	switch {
	case *score < 0:
		return 0
	case *score > 1:
		return 1
	default:
		return *score
	}
}
