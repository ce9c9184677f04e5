package dto

import (
	"time"

	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// InternalTransferRequest defines the body of POST /transfers.
type InternalTransferRequest struct {
	TransferID  string          `json:"transferID" binding:"required,max=128"`
	FromAccount string          `json:"fromAccount" binding:"required"`
	ToAccount   string          `json:"toAccount" binding:"required,nefield=FromAccount"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" binding:"required,len=3"`
	Date        time.Time       `json:"date" binding:"required"`
}

func (r InternalTransferRequest) ToTransferRequest() portssvc.TransferRequest {
	return portssvc.TransferRequest{
		TransferID:  r.TransferID,
		FromAccount: r.FromAccount,
		ToAccount:   r.ToAccount,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Date:        r.Date,
	}
}

// VoidTransferRequest defines the body of POST /transfers/:id/void.
type VoidTransferRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// PaymentExecutionRequest defines the body of POST /payments.
type PaymentExecutionRequest struct {
	PaymentID      string          `json:"paymentID" binding:"required,max=128"`
	PayableAccount string          `json:"payableAccount" binding:"required"`
	CashAccount    string          `json:"cashAccount" binding:"required,nefield=PayableAccount"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency" binding:"required,len=3"`
	Date           time.Time       `json:"date" binding:"required"`
}

func (r PaymentExecutionRequest) ToPaymentRequest() portssvc.PaymentRequest {
	return portssvc.PaymentRequest{
		PaymentID:      r.PaymentID,
		PayableAccount: r.PayableAccount,
		CashAccount:    r.CashAccount,
		Amount:         r.Amount,
		Currency:       r.Currency,
		Date:           r.Date,
	}
}
