package domain

// ScoreBreakdown carries the per-axis sub-scores (each in [0,1]) behind a
// proposal's total score so callers can surface them individually.
type ScoreBreakdown struct {
	Price        float64 `json:"price"`
	Delivery     float64 `json:"delivery"`
	Warranty     float64 `json:"warranty"`
	Completeness float64 `json:"completeness"`
	Total        int     `json:"total"`
}

type ScoredProposal struct {
	ProposalWithVendor
	CalculatedScore int            `json:"calculated_score"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
}

type ProsCons struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

// Recommendation is the qualitative judgment produced by the
// text-generation collaborator. When its output cannot be parsed the
// orchestrator substitutes FallbackRecommendation instead of failing.
type Recommendation struct {
	RecommendedVendorID *int64              `json:"recommended_vendor_id"`
	Reasoning           string              `json:"reasoning"`
	ProsCons            map[string]ProsCons `json:"pros_cons,omitempty"`
}

const fallbackReasoning = "The qualitative recommendation is unavailable: the model response could not be parsed. Deterministic scores are still valid."

func FallbackRecommendation() Recommendation {
	return Recommendation{Reasoning: fallbackReasoning}
}

// Fallback reports whether this recommendation is the degraded
// substitute rather than genuine model output.
func (r Recommendation) Fallback() bool {
	return r.RecommendedVendorID == nil && r.Reasoning == fallbackReasoning
}

type ComparisonReport struct {
	Proposals      []ScoredProposal `json:"proposals"`
	Recommendation Recommendation   `json:"recommendation"`
}
