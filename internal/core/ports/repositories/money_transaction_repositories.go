package repositories

import (
	"context"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
)

// MoneyTransactionRepositoryFacade stores cash movements.
type MoneyTransactionRepositoryFacade interface {
	// SaveMoneyTransactions inserts all rows in one transaction. Rows whose
	// (source type, source id, direction) already exists are left untouched.
	SaveMoneyTransactions(ctx context.Context, txs []domain.MoneyTransaction) error
	FindBySource(ctx context.Context, sourceType domain.MoneyTransactionSourceType, sourceID string) ([]domain.MoneyTransaction, error)
	// UpdateStatusBySource moves every row of the source that is in one of the from
	// statuses to status to in a single statement and returns the affected row count.
	UpdateStatusBySource(ctx context.Context, sourceType domain.MoneyTransactionSourceType, sourceID string, from []domain.MoneyTransactionStatus, to domain.MoneyTransactionStatus) (int64, error)
	SourceExists(ctx context.Context, sourceType domain.MoneyTransactionSourceType, sourceID string) (bool, error)
}
