package mapping

import (
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/SscSPs/ledger_posting/internal/models"
)

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		Code:        m.Code,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		IsActive:    m.IsActive,
	}
}
