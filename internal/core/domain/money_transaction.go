package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyTransactionStatus is the state of a cash movement.
type MoneyTransactionStatus string

const (
	MoneyTxPending MoneyTransactionStatus = "PENDING"
	MoneyTxPosted  MoneyTransactionStatus = "POSTED"
	MoneyTxVoid    MoneyTransactionStatus = "VOID"
	MoneyTxFailed  MoneyTransactionStatus = "FAILED"
)

// MoneyTransactionSourceType names the business document behind a cash movement.
type MoneyTransactionSourceType string

const (
	SourcePaymentExecution MoneyTransactionSourceType = "PAYMENT_EXECUTION"
	SourceInternalTransfer MoneyTransactionSourceType = "INTERNAL_TRANSFER"
	SourceAcquiringEvent   MoneyTransactionSourceType = "ACQUIRING_EVENT"
	SourceManual           MoneyTransactionSourceType = "MANUAL"
)

// MoneyDirection is the direction of a cash movement relative to Account.
type MoneyDirection string

const (
	DirectionIn  MoneyDirection = "IN"
	DirectionOut MoneyDirection = "OUT"
)

// MoneyTransaction is a cash-moving record. The two legs of an internal transfer
// share GroupID and must always carry the same status.
type MoneyTransaction struct {
	MoneyTxID  string                     `json:"moneyTxID"`
	SourceType MoneyTransactionSourceType `json:"sourceType"`
	SourceID   string                     `json:"sourceID"`
	GroupID    *string                    `json:"groupID,omitempty"`
	Direction  MoneyDirection             `json:"direction"`
	Account    string                     `json:"account"`
	Amount     decimal.Decimal            `json:"amount"`
	Currency   string                     `json:"currency"`
	OccurredAt time.Time                  `json:"occurredAt"`
	Status     MoneyTransactionStatus     `json:"status"`
	AuditFields
}
