package pgsql

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// currentEntriesClause keeps entries of live postings only: no voided originals and
// no reversals. Entries written before posting runs existed have no run and stay visible.
const currentEntriesClause = `NOT EXISTS (
		SELECT 1 FROM posting_runs pr
		WHERE pr.run_id = ledger_entries.posting_run_id
		  AND (pr.status <> 'POSTED' OR pr.kind <> 'POSTING'))`

// PgxLedgerQueryRepository is the read side of the ledger. It holds no write statements.
type PgxLedgerQueryRepository struct {
	BaseRepository
}

func newPgxLedgerQueryRepository(pool *pgxpool.Pool) *PgxLedgerQueryRepository {
	return &PgxLedgerQueryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerQueryRepository = (*PgxLedgerQueryRepository)(nil)

// ListEntries pages through ledger entries ordered by (posting_date, entry_id).
func (r *PgxLedgerQueryRepository) ListEntries(ctx context.Context, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	limit = pagination.ClampLimit(limit, 50, 500)

	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.DocType != nil {
		conds = append(conds, "doc_type = "+arg(string(*filter.DocType)))
	}
	if filter.DocID != nil {
		conds = append(conds, "doc_id = "+arg(*filter.DocID))
	}
	if filter.From != nil {
		conds = append(conds, "posting_date >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "posting_date <= "+arg(*filter.To))
	}
	if !filter.IncludeVoided {
		conds = append(conds, currentEntriesClause)
	}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken")
		}
		conds = append(conds, "(posting_date, entry_id) > ("+arg(lastDate)+", "+arg(lastID)+"::uuid)")
	}

	query := "SELECT " + LedgerEntryColumns + " FROM ledger_entries"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY posting_date, entry_id LIMIT " + arg(limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list ledger entries", err)
	}
	entries, err := CollectLedgerEntries(rows)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entries", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.PostingDate, last.EntryID)
		token = &t
	}
	return entries, token, nil
}

// ListRunsByStatus pages through runs with the given status ordered by (created_at, run_id).
func (r *PgxLedgerQueryRepository) ListRunsByStatus(ctx context.Context, status domain.PostingRunStatus, limit int, nextToken *string) ([]domain.PostingRun, *string, error) {
	limit = pagination.ClampLimit(limit, 50, 500)

	query := "SELECT " + PostingRunColumns + " FROM posting_runs WHERE status = $1"
	args := []any{string(status)}
	if nextToken != nil && *nextToken != "" {
		lastCreated, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken")
		}
		query += " AND (created_at, run_id) > ($2, $3::uuid)"
		args = append(args, lastCreated, lastID)
	}
	query += " ORDER BY created_at, run_id LIMIT " + strconv.Itoa(limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list posting runs", err)
	}
	runs, err := CollectPostingRuns(rows)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan posting runs", err)
	}

	var token *string
	if len(runs) > limit {
		runs = runs[:limit]
		last := runs[len(runs)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.RunID)
		token = &t
	}
	return runs, token, nil
}

// FindRunsByDocument returns every run of the document, oldest version first.
func (r *PgxLedgerQueryRepository) FindRunsByDocument(ctx context.Context, ref domain.DocumentRef) ([]domain.PostingRun, error) {
	rows, err := r.Pool.Query(ctx,
		"SELECT "+PostingRunColumns+" FROM posting_runs WHERE doc_type = $1 AND doc_id = $2 ORDER BY version",
		string(ref.DocType), ref.DocID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query posting runs", err)
	}
	runs, err := CollectPostingRuns(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan posting runs", err)
	}
	return runs, nil
}

// AccountTotals sums base-currency debits and credits of an account up to asOf.
func (r *PgxLedgerQueryRepository) AccountTotals(ctx context.Context, account string, asOf time.Time, includeVoided bool) (*portsrepo.AccountTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount_base) FILTER (WHERE debit_account = $1), 0),
			COALESCE(SUM(amount_base) FILTER (WHERE credit_account = $1), 0)
		FROM ledger_entries
		WHERE (debit_account = $1 OR credit_account = $1)
		  AND posting_date <= $2`
	if !includeVoided {
		query += " AND " + currentEntriesClause
	}

	totals := portsrepo.AccountTotals{Account: account}
	var debit, credit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, account, asOf).Scan(&debit, &credit); err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum account turnover", err)
	}
	totals.DebitTotal = debit
	totals.CreditTotal = credit
	return &totals, nil
}
