package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryFilter narrows ledger entry queries.
type EntryFilter struct {
	DocType       *domain.DocType
	DocID         *string
	From          *time.Time
	To            *time.Time
	IncludeVoided bool
}

// AccountTotals is the base-currency turnover of one account.
type AccountTotals struct {
	Account     string
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// LedgerQueryRepository is the read-only view of ledger entries and posting runs.
// Writes never go through this interface.
type LedgerQueryRepository interface {
	ListEntries(ctx context.Context, filter EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
	ListRunsByStatus(ctx context.Context, status domain.PostingRunStatus, limit int, nextToken *string) ([]domain.PostingRun, *string, error)
	FindRunsByDocument(ctx context.Context, ref domain.DocumentRef) ([]domain.PostingRun, error)
	AccountTotals(ctx context.Context, account string, asOf time.Time, includeVoided bool) (*AccountTotals, error)
}
