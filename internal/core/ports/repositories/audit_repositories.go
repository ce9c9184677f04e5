package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
)

// DuplicatePosted is a document with more than one POSTED run.
type DuplicatePosted struct {
	Ref    domain.DocumentRef
	RunIDs []string
}

// OrphanEntry is a ledger entry without a posting run.
type OrphanEntry struct {
	EntryID   string
	Ref       domain.DocumentRef
	CreatedAt time.Time
}

// MixedTransfer is an internal transfer whose legs disagree on status.
type MixedTransfer struct {
	GroupID  string
	Statuses []string
}

// StaleClaim is a recurring journal period left CLAIMED without an outcome.
type StaleClaim struct {
	JournalID        string
	JournalType      domain.RecurringJournalType
	SourceDocumentID *string
	PeriodKey        string
	ClaimedAt        time.Time
}

// AuditReader runs the integrity queries against one consistent snapshot.
type AuditReader interface {
	FindDuplicatePostedRuns(ctx context.Context) ([]DuplicatePosted, error)
	FindOrphanEntries(ctx context.Context, docTypes []domain.DocType, createdAfter *time.Time) ([]OrphanEntry, error)
	FindPostedPaymentsWithoutEntries(ctx context.Context) ([]string, error)
	FindTransfersWithMixedStatus(ctx context.Context) ([]MixedTransfer, error)
	FindPostedRunsWithoutEntries(ctx context.Context) ([]domain.PostingRun, error)
	FindStaleClaims(ctx context.Context, claimedBefore time.Time) ([]StaleClaim, error)
}

// AuditRepository opens a read-only snapshot for the auditor.
type AuditRepository interface {
	Snapshot(ctx context.Context, fn func(r AuditReader) error) error
}
