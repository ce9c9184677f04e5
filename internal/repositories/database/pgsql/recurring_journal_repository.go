package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting/internal/models"
	"github.com/SscSPs/ledger_posting/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recurringJournalColumns = `journal_id, journal_type, source_document_id, frequency, day_of_month,
	debit_account, credit_account, amount, currency, start_date, end_date, status, created_at, last_updated_at`

const recurringRunColumns = `run_id, journal_id, period_key, period_start, period_end, status,
	posting_run_id, error_message, run_at`

// PgxRecurringJournalRepository stores recurring journal templates and their period claims.
type PgxRecurringJournalRepository struct {
	BaseRepository
}

func newPgxRecurringJournalRepository(pool *pgxpool.Pool) *PgxRecurringJournalRepository {
	return &PgxRecurringJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecurringJournalRepositoryFacade = (*PgxRecurringJournalRepository)(nil)

func (r *PgxRecurringJournalRepository) SaveJournal(ctx context.Context, journal domain.RecurringJournal) error {
	m := mapping.ToModelRecurringJournal(journal)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO recurring_journals (`+recurringJournalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		m.JournalID, m.JournalType, m.SourceDocumentID, m.Frequency, m.DayOfMonth,
		m.DebitAccount, m.CreditAccount, m.Amount, m.Currency, m.StartDate, m.EndDate,
		m.Status, m.CreatedAt, m.LastUpdatedAt,
	)
	return MapWriteError("failed to save recurring journal", err)
}

func (r *PgxRecurringJournalRepository) ArchiveJournal(ctx context.Context, journalID string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE recurring_journals SET status = $2, last_updated_at = now()
		WHERE journal_id = $1`, journalID, string(domain.JournalArchived))
	if err != nil {
		return apperrors.NewAppError(500, "failed to archive recurring journal", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring journal " + journalID)
	}
	return nil
}

func (r *PgxRecurringJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.RecurringJournal, error) {
	rows, err := r.Pool.Query(ctx, "SELECT "+recurringJournalColumns+" FROM recurring_journals WHERE journal_id = $1", journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query recurring journal", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.RecurringJournal])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("recurring journal " + journalID)
		}
		return nil, apperrors.NewAppError(500, "failed to scan recurring journal", err)
	}
	j := mapping.ToDomainRecurringJournal(m)
	return &j, nil
}

// ListActiveJournals returns ACTIVE journals matching filter, oldest first.
func (r *PgxRecurringJournalRepository) ListActiveJournals(ctx context.Context, filter portsrepo.JournalFilter) ([]domain.RecurringJournal, error) {
	query := "SELECT " + recurringJournalColumns + " FROM recurring_journals WHERE status = $1"
	args := []any{string(domain.JournalActive)}
	if filter.JournalID != nil {
		args = append(args, *filter.JournalID)
		query += " AND journal_id = $" + strconv.Itoa(len(args))
	}
	if filter.JournalType != nil {
		args = append(args, string(*filter.JournalType))
		query += " AND journal_type = $" + strconv.Itoa(len(args))
	}
	args = append(args, filter.Limit)
	query += " ORDER BY created_at, journal_id LIMIT $" + strconv.Itoa(len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list recurring journals", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.RecurringJournal])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan recurring journals", err)
	}
	out := make([]domain.RecurringJournal, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainRecurringJournal(m)
	}
	return out, nil
}

// ClaimPeriod inserts the (journal, period) row in its own statement so the claim
// survives a later posting failure.
func (r *PgxRecurringJournalRepository) ClaimPeriod(ctx context.Context, run domain.RecurringJournalRun) error {
	m := mapping.ToModelRecurringJournalRun(run)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO recurring_journal_runs (`+recurringRunColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.RunID, m.JournalID, m.PeriodKey, m.PeriodStart, m.PeriodEnd, m.Status,
		m.PostingRunID, m.ErrorMessage, m.RunAt,
	)
	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: period %s of journal %s already claimed", apperrors.ErrDuplicate, run.PeriodKey, run.JournalID)
	}
	return MapWriteError("failed to claim recurring journal period", err)
}

func (r *PgxRecurringJournalRepository) MarkRunPosted(ctx context.Context, runID, postingRunID string) error {
	return r.finishRun(ctx, runID, domain.RecurringRunPosted, &postingRunID, nil)
}

func (r *PgxRecurringJournalRepository) MarkRunError(ctx context.Context, runID, message string) error {
	return r.finishRun(ctx, runID, domain.RecurringRunError, nil, &message)
}

func (r *PgxRecurringJournalRepository) finishRun(ctx context.Context, runID string, status domain.RecurringRunStatus, postingRunID, message *string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE recurring_journal_runs
		SET status = $2, posting_run_id = $3, error_message = $4, run_at = now()
		WHERE run_id = $1 AND status = $5`,
		runID, string(status), postingRunID, message, string(domain.RecurringRunClaimed))
	if err != nil {
		return apperrors.NewAppError(500, "failed to update recurring journal run", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: recurring run %s is no longer CLAIMED", apperrors.ErrConflict, runID)
	}
	return nil
}

// ReclaimRun flips an ERROR run, or a CLAIMED run last touched before staleBefore,
// back to a fresh CLAIMED. Only one operator retry can win.
func (r *PgxRecurringJournalRepository) ReclaimRun(ctx context.Context, journalID, periodKey string, staleBefore time.Time) (*domain.RecurringJournalRun, error) {
	rows, err := r.Pool.Query(ctx, `
		UPDATE recurring_journal_runs
		SET status = $3, error_message = NULL, run_at = now()
		WHERE journal_id = $1 AND period_key = $2
		  AND (status = $4 OR (status = $3 AND run_at < $5))
		RETURNING `+recurringRunColumns,
		journalID, periodKey, string(domain.RecurringRunClaimed), string(domain.RecurringRunError), staleBefore)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to reclaim recurring journal run", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.RecurringJournalRun])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: period %s of journal %s is neither in ERROR nor a stale claim", apperrors.ErrConflict, periodKey, journalID)
		}
		return nil, apperrors.NewAppError(500, "failed to scan recurring journal run", err)
	}
	run := mapping.ToDomainRecurringJournalRun(m)
	return &run, nil
}

func (r *PgxRecurringJournalRepository) FindRun(ctx context.Context, journalID, periodKey string) (*domain.RecurringJournalRun, error) {
	rows, err := r.Pool.Query(ctx,
		"SELECT "+recurringRunColumns+" FROM recurring_journal_runs WHERE journal_id = $1 AND period_key = $2",
		journalID, periodKey)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query recurring journal run", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.RecurringJournalRun])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("recurring journal run " + journalID + "/" + periodKey)
		}
		return nil, apperrors.NewAppError(500, "failed to scan recurring journal run", err)
	}
	run := mapping.ToDomainRecurringJournalRun(m)
	return &run, nil
}

// ListRuns returns the journal's runs whose period starts within [from, to], oldest first.
func (r *PgxRecurringJournalRepository) ListRuns(ctx context.Context, journalID string, from, to *time.Time) ([]domain.RecurringJournalRun, error) {
	query := "SELECT " + recurringRunColumns + " FROM recurring_journal_runs WHERE journal_id = $1"
	args := []any{journalID}
	if from != nil {
		args = append(args, *from)
		query += " AND period_start >= $" + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += " AND period_start <= $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY period_start LIMIT 5000"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list recurring journal runs", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.RecurringJournalRun])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan recurring journal runs", err)
	}
	out := make([]domain.RecurringJournalRun, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainRecurringJournalRun(m)
	}
	return out, nil
}
