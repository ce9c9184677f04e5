package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// AccountBalance is an account's base-currency balance in its normal direction.
type AccountBalance struct {
	Account     domain.Account  `json:"account"`
	AsOf        time.Time       `json:"asOf"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
	Balance     decimal.Decimal `json:"balance"`
}

// LedgerReadSvcFacade is the read-only reporting view of the ledger.
type LedgerReadSvcFacade interface {
	ListEntries(ctx context.Context, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
	ListRunsByStatus(ctx context.Context, status domain.PostingRunStatus, limit int, nextToken *string) ([]domain.PostingRun, *string, error)
	FindRunsByDocument(ctx context.Context, ref domain.DocumentRef) ([]domain.PostingRun, error)
	AccountBalance(ctx context.Context, accountCode string, asOf time.Time, includeVoided bool) (*AccountBalance, error)
}
