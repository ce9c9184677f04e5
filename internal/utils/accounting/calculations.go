package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedBalance returns an account's balance in its normal direction.
// ASSET/EXPENSE -> debit - credit
// LIABILITY/EQUITY/INCOME -> credit - debit
func SignedBalance(accountType domain.AccountType, debitTotal, creditTotal decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debitTotal.Sub(creditTotal), nil
	case domain.Liability, domain.Equity, domain.Income:
		return creditTotal.Sub(debitTotal), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// ValidateBalance checks that the entries of one posting balance in base currency:
// every base amount is positive and debit legs sum to credit legs.
func ValidateBalance(entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("posting must have at least one entry")
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, e := range entries {
		if !e.AmountBase.IsPositive() {
			return fmt.Errorf("line %d: base amount must be positive, got %s", e.LineNumber, e.AmountBase)
		}
		if e.DebitAccount == e.CreditAccount {
			return fmt.Errorf("line %d: debit and credit account are both %s", e.LineNumber, e.DebitAccount)
		}
		debits = debits.Add(e.AmountBase)
		credits = credits.Add(e.AmountBase)
	}

	sum := decimal.Zero
	for _, net := range domain.NetByAccount(entries) {
		sum = sum.Add(net)
	}
	if !debits.Equal(credits) || !sum.IsZero() {
		return fmt.Errorf("entries do not balance: debit %s, credit %s", debits, credits)
	}
	return nil
}
