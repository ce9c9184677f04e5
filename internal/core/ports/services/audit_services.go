package services

import (
	"context"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
)

// IntegrityAuditor reports ledger invariant violations without repairing them.
type IntegrityAuditor interface {
	CheckAll(ctx context.Context) ([]domain.Violation, error)
}
