package models

// Account mirrors a row of accounts.
type Account struct {
	Code        string `db:"code"`
	Name        string `db:"name"`
	AccountType string `db:"account_type"`
	IsActive    bool   `db:"is_active"`
}
