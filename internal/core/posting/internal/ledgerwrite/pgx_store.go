package ledgerwrite

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/SscSPs/ledger_posting/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_posting/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxStore implements Store on PostgreSQL. The partial unique index
// posting_runs_one_posted_per_doc decides concurrent posting races.
type PgxStore struct {
	pgsql.BaseRepository
}

// NewPgxStore creates a Store over pool.
func NewPgxStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{BaseRepository: pgsql.BaseRepository{Pool: pool}}
}

var (
	_ Store  = (*PgxStore)(nil)
	_ Writer = (*pgxWriter)(nil)
)

func (s *PgxStore) FindPostedRun(ctx context.Context, ref domain.DocumentRef) (*domain.PostingRun, error) {
	rows, err := s.Pool.Query(ctx,
		"SELECT "+pgsql.PostingRunColumns+" FROM posting_runs WHERE doc_type = $1 AND doc_id = $2 AND status = 'POSTED'",
		string(ref.DocType), ref.DocID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query posting run", err)
	}
	run, err := pgsql.CollectOnePostingRun(rows)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no POSTED run for %s", apperrors.ErrNotFound, ref)
		}
		return nil, apperrors.NewAppError(500, "failed to scan posting run", err)
	}
	return run, nil
}

func (s *PgxStore) FindEntriesByRun(ctx context.Context, runID string) ([]domain.LedgerEntry, error) {
	rows, err := s.Pool.Query(ctx,
		"SELECT "+pgsql.LedgerEntryColumns+" FROM ledger_entries WHERE posting_run_id = $1 ORDER BY line_number",
		runID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger entries", err)
	}
	entries, err := pgsql.CollectLedgerEntries(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan ledger entries", err)
	}
	return entries, nil
}

func (s *PgxStore) InTx(ctx context.Context, fn func(ctx context.Context, w Writer) error) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxWriter{tx: tx})
	})
}

type pgxWriter struct {
	tx pgx.Tx
}

func (w *pgxWriter) NextVersion(ctx context.Context, ref domain.DocumentRef) (int64, error) {
	var version int64
	err := w.tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM posting_runs WHERE doc_type = $1 AND doc_id = $2`,
		string(ref.DocType), ref.DocID).Scan(&version)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to compute posting run version", err)
	}
	return version, nil
}

func (w *pgxWriter) InsertRun(ctx context.Context, run domain.PostingRun) error {
	m := mapping.ToModelPostingRun(run)
	_, err := w.tx.Exec(ctx, `
		INSERT INTO posting_runs (`+pgsql.PostingRunColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.RunID, m.DocType, m.DocID, m.Version, m.Status, m.Kind, m.ReversalOfRunID,
		m.ReversalRunID, m.CreatedAt, m.PostedAt, m.VoidedAt, m.VoidReason,
	)
	return pgsql.MapWriteError("failed to insert posting run", err)
}

func (w *pgxWriter) InsertEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range entries {
		m := mapping.ToModelLedgerEntry(e)
		batch.Queue(`
			INSERT INTO ledger_entries (`+pgsql.LedgerEntryColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			m.EntryID, m.PostingRunID, m.DocType, m.DocID, m.LineNumber, m.DebitAccount,
			m.CreditAccount, m.Amount, m.Currency, m.AmountBase, m.PostingDate, m.Description, m.CreatedAt,
		)
	}
	return pgsql.MapWriteError("failed to insert ledger entries", w.tx.SendBatch(ctx, batch).Close())
}

func (w *pgxWriter) TransitionRun(ctx context.Context, t Transition) error {
	if !domain.CanTransition(t.From, t.To) {
		return fmt.Errorf("%w: run %s cannot move from %s to %s", apperrors.ErrValidation, t.RunID, t.From, t.To)
	}

	var query string
	args := []any{t.RunID, string(t.From), t.Version, string(t.To), t.At}
	switch t.To {
	case domain.RunPosted:
		query = `UPDATE posting_runs SET status = $4, posted_at = $5
			WHERE run_id = $1 AND status = $2 AND version = $3`
	case domain.RunVoid:
		query = `UPDATE posting_runs SET status = $4, voided_at = $5, void_reason = $6
			WHERE run_id = $1 AND status = $2 AND version = $3`
		args = append(args, t.Reason)
	}

	tag, err := w.tx.Exec(ctx, query, args...)
	if err != nil {
		return pgsql.MapWriteError("failed to transition posting run", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: run %s is no longer %s at version %d", apperrors.ErrConflict, t.RunID, t.From, t.Version)
	}
	return nil
}

func (w *pgxWriter) LinkReversal(ctx context.Context, originalRunID, reversalRunID string) error {
	tag, err := w.tx.Exec(ctx, `
		UPDATE posting_runs SET reversal_run_id = $2
		WHERE run_id = $1 AND status = 'VOID' AND reversal_run_id IS NULL`,
		originalRunID, reversalRunID)
	if err != nil {
		return pgsql.MapWriteError("failed to link reversal run", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: run %s already has a reversal", apperrors.ErrConflict, originalRunID)
	}
	return nil
}
