package domain

import "time"

// PostingRunStatus is the lifecycle state of a posting run.
type PostingRunStatus string

const (
	RunPending PostingRunStatus = "PENDING"
	RunPosted  PostingRunStatus = "POSTED"
	RunVoid    PostingRunStatus = "VOID"
)

// PostingRunKind distinguishes an original posting from the reversal that cancels it.
type PostingRunKind string

const (
	RunKindPosting  PostingRunKind = "POSTING"
	RunKindReversal PostingRunKind = "REVERSAL"
)

// PostingRun associates a document with the ledger entries it produced.
type PostingRun struct {
	RunID           string           `json:"runID"`
	DocType         DocType          `json:"docType"`
	DocID           string           `json:"docID"`
	Version         int64            `json:"version"` // per-document sequence, bumped only by a superseding run
	Status          PostingRunStatus `json:"status"`
	Kind            PostingRunKind   `json:"kind"`
	ReversalOfRunID *string          `json:"reversalOfRunID,omitempty"`
	ReversalRunID   *string          `json:"reversalRunID,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	PostedAt        *time.Time       `json:"postedAt,omitempty"`
	VoidedAt        *time.Time       `json:"voidedAt,omitempty"`
	VoidReason      *string          `json:"voidReason,omitempty"`
}

// Ref returns the document reference of the run.
func (r PostingRun) Ref() DocumentRef {
	return DocumentRef{DocType: r.DocType, DocID: r.DocID}
}

// IsReversal reports whether this run compensates another run.
func (r PostingRun) IsReversal() bool {
	return r.Kind == RunKindReversal
}

var allowedTransitions = map[PostingRunStatus][]PostingRunStatus{
	RunPending: {RunPosted},
	RunPosted:  {RunVoid},
}

// CanTransition reports whether a run may move from one status to another.
// VOID is terminal.
func CanTransition(from, to PostingRunStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
