package pgsql

import (
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/SscSPs/ledger_posting/internal/models"
	"github.com/SscSPs/ledger_posting/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// PostingRunColumns lists posting_runs columns in models.PostingRun order.
const PostingRunColumns = `run_id, doc_type, doc_id, version, status, kind, reversal_of_run_id,
	reversal_run_id, created_at, posted_at, voided_at, void_reason`

// LedgerEntryColumns lists ledger_entries columns in models.LedgerEntry order.
const LedgerEntryColumns = `entry_id, posting_run_id, doc_type, doc_id, line_number, debit_account,
	credit_account, amount, currency, amount_base, posting_date, description, created_at`

// CollectPostingRuns scans every row into domain runs.
func CollectPostingRuns(rows pgx.Rows) ([]domain.PostingRun, error) {
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PostingRun])
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainPostingRuns(ms), nil
}

// CollectOnePostingRun scans exactly one row; pgx.ErrNoRows if there is none.
func CollectOnePostingRun(rows pgx.Rows) (*domain.PostingRun, error) {
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.PostingRun])
	if err != nil {
		return nil, err
	}
	run := mapping.ToDomainPostingRun(m)
	return &run, nil
}

// CollectLedgerEntries scans every row into domain entries.
func CollectLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainLedgerEntries(ms), nil
}
