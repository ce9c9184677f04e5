package dto

import (
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// CreateRecurringJournalRequest defines the body of POST /recurring-journals.
type CreateRecurringJournalRequest struct {
	JournalType      string          `json:"journalType" binding:"required"`
	SourceDocumentID *string         `json:"sourceDocumentID" binding:"omitempty,max=128"`
	DayOfMonth       int             `json:"dayOfMonth" binding:"omitempty,min=1,max=28"`
	DebitAccount     string          `json:"debitAccount" binding:"required"`
	CreditAccount    string          `json:"creditAccount" binding:"required"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency" binding:"required,len=3"`
	StartDate        time.Time       `json:"startDate" binding:"required"`
	EndDate          *time.Time      `json:"endDate"`
}

// ToCreateJournalRequest converts the body into the service input.
func (r CreateRecurringJournalRequest) ToCreateJournalRequest() portssvc.CreateJournalRequest {
	return portssvc.CreateJournalRequest{
		JournalType:      domain.RecurringJournalType(r.JournalType),
		SourceDocumentID: r.SourceDocumentID,
		DayOfMonth:       r.DayOfMonth,
		DebitAccount:     r.DebitAccount,
		CreditAccount:    r.CreditAccount,
		Amount:           r.Amount,
		Currency:         r.Currency,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
	}
}

// RunBatchRequest defines the body of POST /recurring-journals/batch.
type RunBatchRequest struct {
	JournalID   *string   `json:"journalID"`
	JournalType *string   `json:"journalType"`
	From        time.Time `json:"from" binding:"required"`
	To          time.Time `json:"to" binding:"required"`
	Limit       int       `json:"limit" binding:"omitempty,min=1,max=1000"`
}

// ToBatchRequest converts the body into the service input.
func (r RunBatchRequest) ToBatchRequest() portssvc.BatchRequest {
	req := portssvc.BatchRequest{
		JournalID: r.JournalID,
		From:      r.From,
		To:        r.To,
		Limit:     r.Limit,
	}
	if r.JournalType != nil {
		jt := domain.RecurringJournalType(*r.JournalType)
		req.JournalType = &jt
	}
	return req
}

// ListRecurringRunsQuery holds the query parameters of GET /recurring-journals/:id/runs.
type ListRecurringRunsQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To   *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
}

// RecurringJournalResponse is the API view of a recurring journal template.
type RecurringJournalResponse struct {
	JournalID        string          `json:"journalID"`
	JournalType      string          `json:"journalType"`
	SourceDocumentID *string         `json:"sourceDocumentID,omitempty"`
	Frequency        string          `json:"frequency"`
	DayOfMonth       int             `json:"dayOfMonth"`
	DebitAccount     string          `json:"debitAccount"`
	CreditAccount    string          `json:"creditAccount"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          *time.Time      `json:"endDate,omitempty"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ToRecurringJournalResponse converts a domain.RecurringJournal to its response DTO.
func ToRecurringJournalResponse(j *domain.RecurringJournal) RecurringJournalResponse {
	return RecurringJournalResponse{
		JournalID:        j.JournalID,
		JournalType:      string(j.JournalType),
		SourceDocumentID: j.SourceDocumentID,
		Frequency:        j.Frequency,
		DayOfMonth:       j.DayOfMonth,
		DebitAccount:     j.DebitAccount,
		CreditAccount:    j.CreditAccount,
		Amount:           j.Amount,
		Currency:         j.Currency,
		StartDate:        j.StartDate,
		EndDate:          j.EndDate,
		Status:           string(j.Status),
		CreatedAt:        j.CreatedAt,
	}
}

// RecurringRunsResponse lists the stored period outcomes of a journal.
type RecurringRunsResponse struct {
	JournalID string                       `json:"journalID"`
	Runs      []domain.RecurringJournalRun `json:"runs"`
}
