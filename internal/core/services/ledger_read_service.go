package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/utils/accounting"
	"github.com/SscSPs/ledger_posting/internal/utils/pagination"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

type ledgerReadService struct {
	ledgerRepo portsrepo.LedgerQueryRepository
	accounts   portsrepo.AccountCatalog
}

func NewLedgerReadService(ledgerRepo portsrepo.LedgerQueryRepository, accounts portsrepo.AccountCatalog) portssvc.LedgerReadSvcFacade {
	return &ledgerReadService{ledgerRepo: ledgerRepo, accounts: accounts}
}

var _ portssvc.LedgerReadSvcFacade = (*ledgerReadService)(nil)

func (s *ledgerReadService) ListEntries(ctx context.Context, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if filter.DocType != nil && !filter.DocType.IsValid() {
		return nil, nil, apperrors.NewValidationError(fmt.Sprintf("unknown doc type %q", *filter.DocType))
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, nil, apperrors.NewValidationError("to must not be before from")
	}
	return s.ledgerRepo.ListEntries(ctx, filter, pagination.ClampLimit(limit, defaultPageSize, maxPageSize), nextToken)
}

func (s *ledgerReadService) ListRunsByStatus(ctx context.Context, status domain.PostingRunStatus, limit int, nextToken *string) ([]domain.PostingRun, *string, error) {
	switch status {
	case domain.RunPending, domain.RunPosted, domain.RunVoid:
	default:
		return nil, nil, apperrors.NewValidationError(fmt.Sprintf("unknown run status %q", status))
	}
	return s.ledgerRepo.ListRunsByStatus(ctx, status, pagination.ClampLimit(limit, defaultPageSize, maxPageSize), nextToken)
}

func (s *ledgerReadService) FindRunsByDocument(ctx context.Context, ref domain.DocumentRef) ([]domain.PostingRun, error) {
	if !ref.DocType.IsValid() || ref.DocID == "" {
		return nil, apperrors.NewValidationError("a known docType and a docID are required")
	}
	return s.ledgerRepo.FindRunsByDocument(ctx, ref)
}

// AccountBalance returns the account's balance in base currency as of asOf.
// Voided documents and their reversals are left out unless includeVoided is set.
func (s *ledgerReadService) AccountBalance(ctx context.Context, accountCode string, asOf time.Time, includeVoided bool) (*portssvc.AccountBalance, error) {
	account, err := s.accounts.FindAccountByCode(ctx, accountCode)
	if err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	totals, err := s.ledgerRepo.AccountTotals(ctx, accountCode, asOf, includeVoided)
	if err != nil {
		return nil, fmt.Errorf("failed to compute account totals: %w", err)
	}
	balance, err := accounting.SignedBalance(account.AccountType, totals.DebitTotal, totals.CreditTotal)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}

	return &portssvc.AccountBalance{
		Account:     *account,
		AsOf:        asOf,
		DebitTotal:  totals.DebitTotal,
		CreditTotal: totals.CreditTotal,
		Balance:     balance,
	}, nil
}
