package domain

// DispatchResult is the per-batch accounting for an RFP email fan-out.
// Delivery is fire-and-forget per recipient: some sends may fail while
// others succeed, so the result counts successes instead of collapsing
// the batch into all-or-nothing.
type DispatchResult struct {
	RFPID           int64   `json:"rfp_id"`
	Requested       int     `json:"requested"`
	Sent            int     `json:"sent"`
	FailedVendorIDs []int64 `json:"failed_vendor_ids,omitempty"`
}
