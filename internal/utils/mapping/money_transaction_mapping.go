package mapping

import (
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/SscSPs/ledger_posting/internal/models"
)

// ToModelMoneyTransaction converts a domain MoneyTransaction to a model MoneyTransaction
func ToModelMoneyTransaction(d domain.MoneyTransaction) models.MoneyTransaction {
	return models.MoneyTransaction{
		MoneyTxID:  d.MoneyTxID,
		SourceType: string(d.SourceType),
		SourceID:   d.SourceID,
		GroupID:    d.GroupID,
		Direction:  string(d.Direction),
		Account:    d.Account,
		Amount:     d.Amount,
		Currency:   d.Currency,
		OccurredAt: d.OccurredAt,
		Status:     string(d.Status),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

// ToDomainMoneyTransaction converts a model MoneyTransaction to a domain MoneyTransaction
func ToDomainMoneyTransaction(m models.MoneyTransaction) domain.MoneyTransaction {
	return domain.MoneyTransaction{
		MoneyTxID:  m.MoneyTxID,
		SourceType: domain.MoneyTransactionSourceType(m.SourceType),
		SourceID:   m.SourceID,
		GroupID:    m.GroupID,
		Direction:  domain.MoneyDirection(m.Direction),
		Account:    m.Account,
		Amount:     m.Amount,
		Currency:   m.Currency,
		OccurredAt: m.OccurredAt,
		Status:     domain.MoneyTransactionStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}
