package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostingRun mirrors a row of posting_runs.
type PostingRun struct {
	RunID           string     `db:"run_id"`
	DocType         string     `db:"doc_type"`
	DocID           string     `db:"doc_id"`
	Version         int64      `db:"version"`
	Status          string     `db:"status"`
	Kind            string     `db:"kind"`
	ReversalOfRunID *string    `db:"reversal_of_run_id"`
	ReversalRunID   *string    `db:"reversal_run_id"`
	CreatedAt       time.Time  `db:"created_at"`
	PostedAt        *time.Time `db:"posted_at"`
	VoidedAt        *time.Time `db:"voided_at"`
	VoidReason      *string    `db:"void_reason"`
}

// LedgerEntry mirrors a row of ledger_entries.
type LedgerEntry struct {
	EntryID       string          `db:"entry_id"`
	PostingRunID  *string         `db:"posting_run_id"`
	DocType       string          `db:"doc_type"`
	DocID         string          `db:"doc_id"`
	LineNumber    int             `db:"line_number"`
	DebitAccount  string          `db:"debit_account"`
	CreditAccount string          `db:"credit_account"`
	Amount        decimal.Decimal `db:"amount"`
	Currency      string          `db:"currency"`
	AmountBase    decimal.Decimal `db:"amount_base"`
	PostingDate   time.Time       `db:"posting_date"`
	Description   string          `db:"description"`
	CreatedAt     time.Time       `db:"created_at"`
}
