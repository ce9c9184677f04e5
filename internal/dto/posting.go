package dto

import (
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// PostingLineRequest is one debit/credit line of a document being posted.
type PostingLineRequest struct {
	DebitAccount  string          `json:"debitAccount" binding:"required,max=64"`
	CreditAccount string          `json:"creditAccount" binding:"required,max=64"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" binding:"required,len=3"`
	Description   string          `json:"description" binding:"max=500"`
}

// PostDocumentRequest defines the body of POST /postings.
type PostDocumentRequest struct {
	DocType     string               `json:"docType" binding:"required"`
	DocID       string               `json:"docID" binding:"required,max=128"`
	PostingDate time.Time            `json:"postingDate" binding:"required"`
	Lines       []PostingLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToPostRequest converts the request into the engine input. The doc type is
// parsed by the caller.
func (r PostDocumentRequest) ToPostRequest(docType domain.DocType) portssvc.PostRequest {
	lines := make([]domain.PostingLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.PostingLine{
			DebitAccount:  l.DebitAccount,
			CreditAccount: l.CreditAccount,
			Amount:        l.Amount,
			Currency:      l.Currency,
			Description:   l.Description,
		}
	}
	return portssvc.PostRequest{
		DocType:     docType,
		DocID:       r.DocID,
		PostingDate: r.PostingDate,
		Lines:       lines,
	}
}

// VoidDocumentRequest defines the body of POST /postings/void.
type VoidDocumentRequest struct {
	DocType string `json:"docType" binding:"required"`
	DocID   string `json:"docID" binding:"required,max=128"`
	Reason  string `json:"reason" binding:"required,max=500"`
}

// DocumentStatusQuery selects the document for GET /postings/status.
type DocumentStatusQuery struct {
	DocType string `form:"docType" binding:"required"`
	DocID   string `form:"docID" binding:"required"`
}

// PostingRunResponse is the API view of a posting run.
type PostingRunResponse struct {
	RunID           string     `json:"runID"`
	DocType         string     `json:"docType"`
	DocID           string     `json:"docID"`
	Version         int64      `json:"version"`
	Status          string     `json:"status"`
	Kind            string     `json:"kind"`
	ReversalOfRunID *string    `json:"reversalOfRunID,omitempty"`
	ReversalRunID   *string    `json:"reversalRunID,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	PostedAt        *time.Time `json:"postedAt,omitempty"`
	VoidedAt        *time.Time `json:"voidedAt,omitempty"`
	VoidReason      *string    `json:"voidReason,omitempty"`
}

// ToPostingRunResponse converts a domain.PostingRun to its response DTO.
func ToPostingRunResponse(run *domain.PostingRun) PostingRunResponse {
	return PostingRunResponse{
		RunID:           run.RunID,
		DocType:         string(run.DocType),
		DocID:           run.DocID,
		Version:         run.Version,
		Status:          string(run.Status),
		Kind:            string(run.Kind),
		ReversalOfRunID: run.ReversalOfRunID,
		ReversalRunID:   run.ReversalRunID,
		CreatedAt:       run.CreatedAt,
		PostedAt:        run.PostedAt,
		VoidedAt:        run.VoidedAt,
		VoidReason:      run.VoidReason,
	}
}

// ToPostingRunResponses converts a slice of runs.
func ToPostingRunResponses(runs []domain.PostingRun) []PostingRunResponse {
	out := make([]PostingRunResponse, len(runs))
	for i := range runs {
		out[i] = ToPostingRunResponse(&runs[i])
	}
	return out
}

// DocumentStatusResponse reports whether a document is posted and its run history.
type DocumentStatusResponse struct {
	DocType string               `json:"docType"`
	DocID   string               `json:"docID"`
	Posted  bool                 `json:"posted"`
	Runs    []PostingRunResponse `json:"runs"`
}
