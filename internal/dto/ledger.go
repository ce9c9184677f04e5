package dto

import (
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListEntriesQuery holds the query parameters of GET /ledger/entries.
type ListEntriesQuery struct {
	DocType       string     `form:"docType"`
	DocID         string     `form:"docID"`
	From          *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To            *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
	IncludeVoided bool       `form:"includeVoided"`
	Limit         int        `form:"limit" binding:"omitempty,min=1,max=1000"`
	NextToken     *string    `form:"nextToken"`
}

// ListRunsQuery holds the query parameters of GET /ledger/runs.
type ListRunsQuery struct {
	Status    string  `form:"status" binding:"required"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=1000"`
	NextToken *string `form:"nextToken"`
}

// BalanceQuery holds the query parameters of GET /ledger/balance/:account.
type BalanceQuery struct {
	AsOf          *time.Time `form:"asOf" time_format:"2006-01-02" time_utc:"1"`
	IncludeVoided bool       `form:"includeVoided"`
}

// LedgerEntryResponse is the API view of a ledger entry.
type LedgerEntryResponse struct {
	EntryID       string          `json:"entryID"`
	PostingRunID  *string         `json:"postingRunID"`
	DocType       string          `json:"docType"`
	DocID         string          `json:"docID"`
	LineNumber    int             `json:"lineNumber"`
	DebitAccount  string          `json:"debitAccount"`
	CreditAccount string          `json:"creditAccount"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	AmountBase    decimal.Decimal `json:"amountBase"`
	PostingDate   time.Time       `json:"postingDate"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToLedgerEntryResponses converts ledger entries to response DTOs.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = LedgerEntryResponse{
			EntryID:       e.EntryID,
			PostingRunID:  e.PostingRunID,
			DocType:       string(e.DocType),
			DocID:         e.DocID,
			LineNumber:    e.LineNumber,
			DebitAccount:  e.DebitAccount,
			CreditAccount: e.CreditAccount,
			Amount:        e.Amount,
			Currency:      e.Currency,
			AmountBase:    e.AmountBase,
			PostingDate:   e.PostingDate,
			Description:   e.Description,
			CreatedAt:     e.CreatedAt,
		}
	}
	return out
}

// ListEntriesResponse is a page of ledger entries.
type ListEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ListRunsResponse is a page of posting runs.
type ListRunsResponse struct {
	Runs      []PostingRunResponse `json:"runs"`
	NextToken *string              `json:"nextToken,omitempty"`
}
