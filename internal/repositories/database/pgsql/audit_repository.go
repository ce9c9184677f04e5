package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAuditRepository runs integrity queries. Every query is a plain SELECT.
type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// Snapshot runs fn inside a REPEATABLE READ, READ ONLY transaction so all checks see
// the same state. It never takes locks that block posting.
func (r *PgxAuditRepository) Snapshot(ctx context.Context, fn func(portsrepo.AuditReader) error) error {
	tx, err := r.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := fn(&auditReader{tx: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

type auditReader struct {
	tx pgx.Tx
}

func (a *auditReader) FindDuplicatePostedRuns(ctx context.Context) ([]portsrepo.DuplicatePosted, error) {
	rows, err := a.tx.Query(ctx, `
		SELECT doc_type, doc_id, array_agg(run_id::text ORDER BY version)
		FROM posting_runs
		WHERE status = 'POSTED'
		GROUP BY doc_type, doc_id
		HAVING count(*) > 1
		ORDER BY doc_type, doc_id`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query duplicate posted runs", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (portsrepo.DuplicatePosted, error) {
		var d portsrepo.DuplicatePosted
		var docType string
		err := row.Scan(&docType, &d.Ref.DocID, &d.RunIDs)
		d.Ref.DocType = domain.DocType(docType)
		return d, err
	})
}

func (a *auditReader) FindOrphanEntries(ctx context.Context, docTypes []domain.DocType, createdAfter *time.Time) ([]portsrepo.OrphanEntry, error) {
	types := make([]string, len(docTypes))
	for i, t := range docTypes {
		types[i] = string(t)
	}
	rows, err := a.tx.Query(ctx, `
		SELECT entry_id, doc_type, doc_id, created_at
		FROM ledger_entries
		WHERE posting_run_id IS NULL
		  AND doc_type = ANY($1)
		  AND ($2::timestamptz IS NULL OR created_at > $2)
		ORDER BY created_at
		LIMIT 1000`, types, createdAfter)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query orphan entries", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (portsrepo.OrphanEntry, error) {
		var o portsrepo.OrphanEntry
		var docType string
		err := row.Scan(&o.EntryID, &docType, &o.Ref.DocID, &o.CreatedAt)
		o.Ref.DocType = domain.DocType(docType)
		return o, err
	})
}

func (a *auditReader) FindPostedPaymentsWithoutEntries(ctx context.Context) ([]string, error) {
	rows, err := a.tx.Query(ctx, `
		SELECT DISTINCT mt.source_id
		FROM money_transactions mt
		WHERE mt.source_type = 'PAYMENT_EXECUTION'
		  AND mt.status = 'POSTED'
		  AND NOT EXISTS (
		      SELECT 1 FROM ledger_entries le
		      WHERE le.doc_type = 'PAYMENT_EXECUTION' AND le.doc_id = mt.source_id)
		ORDER BY mt.source_id`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payments without entries", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (a *auditReader) FindTransfersWithMixedStatus(ctx context.Context) ([]portsrepo.MixedTransfer, error) {
	rows, err := a.tx.Query(ctx, `
		SELECT COALESCE(group_id, source_id) AS gid, array_agg(DISTINCT status ORDER BY status)
		FROM money_transactions
		WHERE source_type = 'INTERNAL_TRANSFER'
		GROUP BY gid
		HAVING count(DISTINCT status) > 1
		ORDER BY gid`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transfer legs", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (portsrepo.MixedTransfer, error) {
		var m portsrepo.MixedTransfer
		err := row.Scan(&m.GroupID, &m.Statuses)
		return m, err
	})
}

func (a *auditReader) FindPostedRunsWithoutEntries(ctx context.Context) ([]domain.PostingRun, error) {
	rows, err := a.tx.Query(ctx, `
		SELECT `+PostingRunColumns+`
		FROM posting_runs pr
		WHERE pr.status = 'POSTED'
		  AND NOT EXISTS (SELECT 1 FROM ledger_entries le WHERE le.posting_run_id = pr.run_id)
		ORDER BY pr.created_at`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query empty posted runs", err)
	}
	return CollectPostingRuns(rows)
}

func (a *auditReader) FindStaleClaims(ctx context.Context, claimedBefore time.Time) ([]portsrepo.StaleClaim, error) {
	rows, err := a.tx.Query(ctx, `
		SELECT r.journal_id, j.journal_type, j.source_document_id, r.period_key, r.run_at
		FROM recurring_journal_runs r
		JOIN recurring_journals j ON j.journal_id = r.journal_id
		WHERE r.status = 'CLAIMED' AND r.run_at < $1
		ORDER BY r.run_at
		LIMIT 1000`, claimedBefore)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query stale recurring claims", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (portsrepo.StaleClaim, error) {
		var c portsrepo.StaleClaim
		var journalType string
		err := row.Scan(&c.JournalID, &journalType, &c.SourceDocumentID, &c.PeriodKey, &c.ClaimedAt)
		c.JournalType = domain.RecurringJournalType(journalType)
		return c, err
	})
}
