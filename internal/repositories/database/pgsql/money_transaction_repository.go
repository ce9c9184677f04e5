package pgsql

import (
	"context"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting/internal/models"
	"github.com/SscSPs/ledger_posting/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const moneyTxColumns = `money_tx_id, source_type, source_id, group_id, direction, account, amount,
	currency, occurred_at, status, created_at, last_updated_at`

// PgxMoneyTransactionRepository stores cash movements.
type PgxMoneyTransactionRepository struct {
	BaseRepository
}

func newPgxMoneyTransactionRepository(pool *pgxpool.Pool) *PgxMoneyTransactionRepository {
	return &PgxMoneyTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MoneyTransactionRepositoryFacade = (*PgxMoneyTransactionRepository)(nil)

// SaveMoneyTransactions inserts txs in one transaction. A row whose source and
// direction are already stored is skipped.
func (r *PgxMoneyTransactionRepository) SaveMoneyTransactions(ctx context.Context, txs []domain.MoneyTransaction) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, t := range txs {
			m := mapping.ToModelMoneyTransaction(t)
			batch.Queue(`
				INSERT INTO money_transactions (`+moneyTxColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
				ON CONFLICT (source_type, source_id, direction) DO NOTHING`,
				m.MoneyTxID, m.SourceType, m.SourceID, m.GroupID, m.Direction, m.Account, m.Amount,
				m.Currency, m.OccurredAt, m.Status, m.CreatedAt, m.LastUpdatedAt,
			)
		}
		return MapWriteError("failed to save money transactions", tx.SendBatch(ctx, batch).Close())
	})
}

func (r *PgxMoneyTransactionRepository) FindBySource(ctx context.Context, sourceType domain.MoneyTransactionSourceType, sourceID string) ([]domain.MoneyTransaction, error) {
	rows, err := r.Pool.Query(ctx,
		"SELECT "+moneyTxColumns+" FROM money_transactions WHERE source_type = $1 AND source_id = $2 ORDER BY created_at, money_tx_id",
		string(sourceType), sourceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query money transactions", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.MoneyTransaction])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan money transactions", err)
	}
	out := make([]domain.MoneyTransaction, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainMoneyTransaction(m)
	}
	return out, nil
}

// UpdateStatusBySource moves all rows of a source in one statement, so transfer legs
// never disagree.
func (r *PgxMoneyTransactionRepository) UpdateStatusBySource(ctx context.Context, sourceType domain.MoneyTransactionSourceType, sourceID string, from []domain.MoneyTransactionStatus, to domain.MoneyTransactionStatus) (int64, error) {
	fromStatuses := make([]string, len(from))
	for i, st := range from {
		fromStatuses[i] = string(st)
	}
	tag, err := r.Pool.Exec(ctx, `
		UPDATE money_transactions SET status = $4, last_updated_at = now()
		WHERE source_type = $1 AND source_id = $2 AND status = ANY($3)`,
		string(sourceType), sourceID, fromStatuses, string(to))
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to update money transaction status", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgxMoneyTransactionRepository) SourceExists(ctx context.Context, sourceType domain.MoneyTransactionSourceType, sourceID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM money_transactions WHERE source_type = $1 AND source_id = $2)`,
		string(sourceType), sourceID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check money transaction source", err)
	}
	return exists, nil
}
