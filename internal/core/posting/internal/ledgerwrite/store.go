// Package ledgerwrite holds the only code allowed to write posting_runs and
// ledger_entries. Being internal to the posting package, nothing else can import it.
package ledgerwrite

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
)

// Transition is a compare-and-swap on a run's status. It applies only if the run is
// still in From at Version; otherwise the writer returns apperrors.ErrConflict.
type Transition struct {
	RunID   string
	From    domain.PostingRunStatus
	To      domain.PostingRunStatus
	Version int64
	At      time.Time
	Reason  *string
}

// Store reads ledger state for the engine and opens write transactions.
type Store interface {
	// FindPostedRun returns the document's POSTED run or apperrors.ErrNotFound.
	FindPostedRun(ctx context.Context, ref domain.DocumentRef) (*domain.PostingRun, error)
	FindEntriesByRun(ctx context.Context, runID string) ([]domain.LedgerEntry, error)
	// InTx runs fn in one database transaction. Any error rolls everything back.
	InTx(ctx context.Context, fn func(ctx context.Context, w Writer) error) error
}

// Writer is valid only inside InTx.
type Writer interface {
	// NextVersion returns max(version)+1 over the document's runs.
	NextVersion(ctx context.Context, ref domain.DocumentRef) (int64, error)
	InsertRun(ctx context.Context, run domain.PostingRun) error
	InsertEntries(ctx context.Context, entries []domain.LedgerEntry) error
	TransitionRun(ctx context.Context, t Transition) error
	// LinkReversal records the reversal on a VOID original exactly once.
	LinkReversal(ctx context.Context, originalRunID, reversalRunID string) error
}
