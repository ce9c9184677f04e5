package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
)

// CurrencyRateReader defines read operations for currency rates.
type CurrencyRateReader interface {
	// FindLatestRate returns the most recent rate with rate_date <= asOf.
	// Returns apperrors.ErrNotFound when none exists.
	FindLatestRate(ctx context.Context, currency string, asOf time.Time) (*domain.CurrencyRate, error)
	ListRates(ctx context.Context, currency string, limit int) ([]domain.CurrencyRate, error)
}

// CurrencyRateWriter defines write operations for currency rates.
type CurrencyRateWriter interface {
	// UpsertRate inserts or replaces the rate for (currency, rate date).
	UpsertRate(ctx context.Context, rate domain.CurrencyRate) (*domain.CurrencyRate, error)
}

// CurrencyRateRepositoryFacade combines all currency rate operations.
type CurrencyRateRepositoryFacade interface {
	CurrencyRateReader
	CurrencyRateWriter
}
