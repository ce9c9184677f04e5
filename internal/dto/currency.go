package dto

import (
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordRateRequest defines the body of POST /currency-rates.
type RecordRateRequest struct {
	Currency string          `json:"currency" binding:"required,len=3"`
	RateDate time.Time       `json:"rateDate" binding:"required"`
	Rate     decimal.Decimal `json:"rate"`
}

// RateQuery holds the query parameters of GET /currency-rates/:currency.
type RateQuery struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02" time_utc:"1"`
}

// CurrencyRateResponse is the API view of a stored rate.
type CurrencyRateResponse struct {
	RateID       string          `json:"rateID"`
	Currency     string          `json:"currency"`
	BaseCurrency string          `json:"baseCurrency"`
	RateDate     time.Time       `json:"rateDate"`
	Rate         decimal.Decimal `json:"rate"`
}

// ToCurrencyRateResponse converts a domain.CurrencyRate to its response DTO.
func ToCurrencyRateResponse(rate *domain.CurrencyRate, baseCurrency string) CurrencyRateResponse {
	return CurrencyRateResponse{
		RateID:       rate.RateID,
		Currency:     rate.Currency,
		BaseCurrency: baseCurrency,
		RateDate:     rate.RateDate,
		Rate:         rate.Rate,
	}
}
