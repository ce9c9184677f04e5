package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
)

// JournalFilter selects the journals a batch covers.
type JournalFilter struct {
	JournalID   *string
	JournalType *domain.RecurringJournalType
	Limit       int
}

// RecurringJournalReader defines read operations for recurring journals.
type RecurringJournalReader interface {
	FindJournalByID(ctx context.Context, journalID string) (*domain.RecurringJournal, error)
	ListActiveJournals(ctx context.Context, filter JournalFilter) ([]domain.RecurringJournal, error)
	FindRun(ctx context.Context, journalID, periodKey string) (*domain.RecurringJournalRun, error)
	ListRuns(ctx context.Context, journalID string, from, to *time.Time) ([]domain.RecurringJournalRun, error)
}

// RecurringJournalWriter defines write operations for recurring journals.
type RecurringJournalWriter interface {
	SaveJournal(ctx context.Context, journal domain.RecurringJournal) error
	ArchiveJournal(ctx context.Context, journalID string) error

	// ClaimPeriod inserts the idempotency row. Returns apperrors.ErrDuplicate if
	// the period was already claimed.
	ClaimPeriod(ctx context.Context, run domain.RecurringJournalRun) error
	MarkRunPosted(ctx context.Context, runID, postingRunID string) error
	MarkRunError(ctx context.Context, runID, message string) error
	// ReclaimRun moves an ERROR run, or a CLAIMED run untouched since staleBefore,
	// back to a fresh CLAIMED. Returns apperrors.ErrConflict otherwise.
	ReclaimRun(ctx context.Context, journalID, periodKey string, staleBefore time.Time) (*domain.RecurringJournalRun, error)
}

// RecurringJournalRepositoryFacade combines all recurring journal operations.
type RecurringJournalRepositoryFacade interface {
	RecurringJournalReader
	RecurringJournalWriter
}
