package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringJournal mirrors a row of recurring_journals.
type RecurringJournal struct {
	JournalID        string          `db:"journal_id"`
	JournalType      string          `db:"journal_type"`
	SourceDocumentID *string         `db:"source_document_id"`
	Frequency        string          `db:"frequency"`
	DayOfMonth       int             `db:"day_of_month"`
	DebitAccount     string          `db:"debit_account"`
	CreditAccount    string          `db:"credit_account"`
	Amount           decimal.Decimal `db:"amount"`
	Currency         string          `db:"currency"`
	StartDate        time.Time       `db:"start_date"`
	EndDate          *time.Time      `db:"end_date"`
	Status           string          `db:"status"`
	AuditFields
}

// RecurringJournalRun mirrors a row of recurring_journal_runs.
type RecurringJournalRun struct {
	RunID        string    `db:"run_id"`
	JournalID    string    `db:"journal_id"`
	PeriodKey    string    `db:"period_key"`
	PeriodStart  time.Time `db:"period_start"`
	PeriodEnd    time.Time `db:"period_end"`
	Status       string    `db:"status"`
	PostingRunID *string   `db:"posting_run_id"`
	ErrorMessage *string   `db:"error_message"`
	RunAt        time.Time `db:"run_at"`
}
