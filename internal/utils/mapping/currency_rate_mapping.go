package mapping

import (
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/SscSPs/ledger_posting/internal/models"
)

// ToModelCurrencyRate converts a domain CurrencyRate to a model CurrencyRate
func ToModelCurrencyRate(d domain.CurrencyRate) models.CurrencyRate {
	return models.CurrencyRate{
		RateID:   d.RateID,
		Currency: d.Currency,
		RateDate: d.RateDate,
		Rate:     d.Rate,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

// ToDomainCurrencyRate converts a model CurrencyRate to a domain CurrencyRate
func ToDomainCurrencyRate(m models.CurrencyRate) domain.CurrencyRate {
	return domain.CurrencyRate{
		RateID:   m.RateID,
		Currency: m.Currency,
		RateDate: domain.RateDay(m.RateDate),
		Rate:     m.Rate,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}
