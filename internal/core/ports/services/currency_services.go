package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyConverter converts document amounts into the ledger base currency.
type CurrencyConverter interface {
	BaseCurrency() string
	ToBase(ctx context.Context, amount decimal.Decimal, currency string, asOf time.Time) (decimal.Decimal, error)
}

// CurrencyRateSvcFacade adds rate maintenance on top of conversion.
type CurrencyRateSvcFacade interface {
	CurrencyConverter
	RecordRate(ctx context.Context, currency string, rateDate time.Time, rate decimal.Decimal) (*domain.CurrencyRate, error)
	RateAsOf(ctx context.Context, currency string, asOf time.Time) (*domain.CurrencyRate, error)
}
