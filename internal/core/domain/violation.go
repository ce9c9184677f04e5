package domain

// ViolationCode classifies an integrity finding.
type ViolationCode string

const (
	ViolationMultiplePostedRuns    ViolationCode = "MULTIPLE_POSTED_RUNS"
	ViolationOrphanControlledEntry ViolationCode = "ORPHAN_CONTROLLED_ENTRY"
	ViolationPaymentWithoutEntries ViolationCode = "PAYMENT_WITHOUT_ENTRIES"
	ViolationTransferMixedStatus   ViolationCode = "TRANSFER_MIXED_STATUS"
	ViolationPostedRunWithoutLines ViolationCode = "POSTED_RUN_WITHOUT_ENTRIES"
	ViolationStaleRecurringClaim   ViolationCode = "STALE_RECURRING_CLAIM"
)

// Violation is a single finding reported by the integrity auditor.
type Violation struct {
	Code    ViolationCode `json:"code"`
	Ref     DocumentRef   `json:"ref"`
	Message string        `json:"message"`
}
