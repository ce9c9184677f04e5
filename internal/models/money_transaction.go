package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyTransaction mirrors a row of money_transactions.
type MoneyTransaction struct {
	MoneyTxID  string          `db:"money_tx_id"`
	SourceType string          `db:"source_type"`
	SourceID   string          `db:"source_id"`
	GroupID    *string         `db:"group_id"`
	Direction  string          `db:"direction"`
	Account    string          `db:"account"`
	Amount     decimal.Decimal `db:"amount"`
	Currency   string          `db:"currency"`
	OccurredAt time.Time       `db:"occurred_at"`
	Status     string          `db:"status"`
	AuditFields
}
