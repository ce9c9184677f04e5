package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// CashTransferClearing is the transit account both legs of an internal transfer pass through.
const CashTransferClearing = "CASH_TRANSFER_CLEARING"

// Account is an entry in the chart of accounts. Ledger entries reference accounts by Code.
type Account struct {
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	IsActive    bool        `json:"isActive"`
}
