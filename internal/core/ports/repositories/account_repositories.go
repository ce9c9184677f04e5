package repositories

import (
	"context"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
)

// AccountCatalog resolves account codes against the chart of accounts.
type AccountCatalog interface {
	// FindAccountsByCodes returns the known accounts keyed by code. Unknown codes are absent.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}
