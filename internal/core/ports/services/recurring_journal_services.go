package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// BatchRequest selects journals and the date range a batch covers.
type BatchRequest struct {
	JournalID   *string
	JournalType *domain.RecurringJournalType
	From        time.Time
	To          time.Time
	Limit       int
}

// BatchItem is the outcome for one (journal, period).
type BatchItem struct {
	JournalID    string                    `json:"journalID"`
	PeriodKey    string                    `json:"periodKey"`
	Status       domain.RecurringRunStatus `json:"status"`
	PostingRunID *string                   `json:"postingRunID,omitempty"`
	Error        string                    `json:"error,omitempty"`
	err          error
}

// NewBatchItem builds an item, keeping err for aggregation.
func NewBatchItem(journalID, periodKey string, status domain.RecurringRunStatus, postingRunID *string, err error) BatchItem {
	item := BatchItem{JournalID: journalID, PeriodKey: periodKey, Status: status, PostingRunID: postingRunID, err: err}
	if err != nil {
		item.Error = err.Error()
	}
	return item
}

// BatchResult lists per-item outcomes. A batch can partially succeed.
type BatchResult struct {
	Journals int         `json:"journals"`
	Items    []BatchItem `json:"items"`
}

// Err combines the errors of all failed items, or returns nil.
func (r BatchResult) Err() error {
	var err error
	for _, it := range r.Items {
		if it.err != nil {
			err = multierr.Append(err, it.err)
		}
	}
	return err
}

// Count returns the number of items with the given status.
func (r BatchResult) Count(status domain.RecurringRunStatus) int {
	n := 0
	for _, it := range r.Items {
		if it.Status == status {
			n++
		}
	}
	return n
}

// CreateJournalRequest defines a new recurring journal template.
type CreateJournalRequest struct {
	JournalType      domain.RecurringJournalType
	SourceDocumentID *string
	DayOfMonth       int
	DebitAccount     string
	CreditAccount    string
	Amount           decimal.Decimal
	Currency         string
	StartDate        time.Time
	EndDate          *time.Time
}

// RecurringJournalSvcFacade runs and maintains recurring journals.
type RecurringJournalSvcFacade interface {
	RunBatch(ctx context.Context, req BatchRequest) (*BatchResult, error)
	// RetryPeriod re-posts a period whose claim ended in ERROR.
	RetryPeriod(ctx context.Context, journalID, periodKey string) (*BatchItem, error)
	CreateJournal(ctx context.Context, req CreateJournalRequest) (*domain.RecurringJournal, error)
	ArchiveJournal(ctx context.Context, journalID string) error
	ListRuns(ctx context.Context, journalID string, from, to *time.Time) ([]domain.RecurringJournalRun, error)
}
