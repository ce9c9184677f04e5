package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
)

// PostRequest is the input to PostDocument.
type PostRequest struct {
	DocType     domain.DocType
	DocID       string
	PostingDate time.Time
	Lines       []domain.PostingLine
}

// PostingEngine is the only way business modules change ledger state.
type PostingEngine interface {
	// PostDocument posts the document once. A retry returns the existing POSTED run.
	PostDocument(ctx context.Context, req PostRequest) (*domain.PostingRun, error)
	// VoidDocument reverses the document's POSTED run and returns the reversal run.
	VoidDocument(ctx context.Context, docType domain.DocType, docID, reason string) (*domain.PostingRun, error)
	IsPosted(ctx context.Context, docType domain.DocType, docID string) (bool, error)
}

// DocumentLookup confirms that a business document exists before it is posted.
// One lookup is registered per doc type.
type DocumentLookup interface {
	DocumentExists(ctx context.Context, docID string) (bool, error)
}
