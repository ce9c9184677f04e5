package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyRate is the rate converting one unit of Currency into the base currency
// for RateDate (a UTC calendar day).
type CurrencyRate struct {
	RateID   string          `json:"rateID"`
	Currency string          `json:"currency"`
	RateDate time.Time       `json:"rateDate"`
	Rate     decimal.Decimal `json:"rate"`
	AuditFields
}

// RateDay truncates t to the UTC calendar day used as the rate key.
func RateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
