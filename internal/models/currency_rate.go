package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyRate mirrors a row of currency_rates.
type CurrencyRate struct {
	RateID   string          `db:"rate_id"`
	Currency string          `db:"currency"`
	RateDate time.Time       `db:"rate_date"`
	Rate     decimal.Decimal `db:"rate"`
	AuditFields
}
