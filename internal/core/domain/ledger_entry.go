package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one immutable debit/credit pair.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`
	PostingRunID  *string         `json:"postingRunID"` // nil only for rows written before posting runs existed
	DocType       DocType         `json:"docType"`
	DocID         string          `json:"docID"`
	LineNumber    int             `json:"lineNumber"`
	DebitAccount  string          `json:"debitAccount"`
	CreditAccount string          `json:"creditAccount"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	AmountBase    decimal.Decimal `json:"amountBase"` // frozen at insert
	PostingDate   time.Time       `json:"postingDate"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Reversed returns the compensating entry: debit and credit swapped, the same
// amounts and line number, attached to reversalRunID.
func (e LedgerEntry) Reversed(entryID, reversalRunID string, createdAt time.Time) LedgerEntry {
	runID := reversalRunID
	return LedgerEntry{
		EntryID:       entryID,
		PostingRunID:  &runID,
		DocType:       e.DocType,
		DocID:         e.DocID,
		LineNumber:    e.LineNumber,
		DebitAccount:  e.CreditAccount,
		CreditAccount: e.DebitAccount,
		Amount:        e.Amount,
		Currency:      e.Currency,
		AmountBase:    e.AmountBase,
		PostingDate:   e.PostingDate,
		Description:   "REVERSAL of " + e.EntryID,
		CreatedAt:     createdAt,
	}
}

// PostingLine is a caller-supplied line before conversion to base currency.
type PostingLine struct {
	DebitAccount  string          `json:"debitAccount" validate:"required,max=64"`
	CreditAccount string          `json:"creditAccount" validate:"required,max=64,nefield=DebitAccount"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"required,len=3,uppercase,alpha"`
	Description   string          `json:"description" validate:"max=500"`
}

// NetByAccount sums entries into signed base amounts per account:
// debits positive, credits negative.
func NetByAccount(entries []LedgerEntry) map[string]decimal.Decimal {
	net := make(map[string]decimal.Decimal)
	for _, e := range entries {
		net[e.DebitAccount] = net[e.DebitAccount].Add(e.AmountBase)
		net[e.CreditAccount] = net[e.CreditAccount].Sub(e.AmountBase)
	}
	return net
}
