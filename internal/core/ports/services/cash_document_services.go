package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest moves cash between two of the company's own accounts.
type TransferRequest struct {
	TransferID  string
	FromAccount string
	ToAccount   string
	Amount      decimal.Decimal
	Currency    string
	Date        time.Time
}

// PaymentRequest settles a payable from a cash account.
type PaymentRequest struct {
	PaymentID      string
	PayableAccount string
	CashAccount    string
	Amount         decimal.Decimal
	Currency       string
	Date           time.Time
}

// CashDocumentSvcFacade owns cash-moving documents and posts them through the engine.
type CashDocumentSvcFacade interface {
	PostInternalTransfer(ctx context.Context, req TransferRequest) (*domain.PostingRun, error)
	VoidInternalTransfer(ctx context.Context, transferID, reason string) (*domain.PostingRun, error)
	PostPaymentExecution(ctx context.Context, req PaymentRequest) (*domain.PostingRun, error)
}
