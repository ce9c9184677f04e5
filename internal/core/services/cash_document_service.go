package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/platform/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// cashDocumentService records cash movements and posts them through the engine.
// Money transaction legs and the ledger are kept in the same status.
type cashDocumentService struct {
	moneyTxRepo portsrepo.MoneyTransactionRepositoryFacade
	engine      portssvc.PostingEngine
	now         func() time.Time
}

func NewCashDocumentService(moneyTxRepo portsrepo.MoneyTransactionRepositoryFacade, engine portssvc.PostingEngine) portssvc.CashDocumentSvcFacade {
	return &cashDocumentService{
		moneyTxRepo: moneyTxRepo,
		engine:      engine,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.CashDocumentSvcFacade = (*cashDocumentService)(nil)

// PostInternalTransfer posts a transfer through the clearing account: the OUT leg
// credits FromAccount and the IN leg debits ToAccount. Retrying is safe.
func (s *cashDocumentService) PostInternalTransfer(ctx context.Context, req portssvc.TransferRequest) (*domain.PostingRun, error) {
	ctx = logging.WithFields(ctx, map[string]any{"transfer_id": req.TransferID})
	logger := logging.FromContext(ctx)

	if strings.TrimSpace(req.TransferID) == "" {
		return nil, apperrors.NewValidationError("transferID is required")
	}
	if req.FromAccount == req.ToAccount {
		return nil, apperrors.NewValidationError("transfer accounts must differ")
	}
	if err := validateCash(req.Amount, req.Currency, req.Date); err != nil {
		return nil, err
	}

	groupID := req.TransferID
	legs := []domain.MoneyTransaction{
		s.leg(domain.SourceInternalTransfer, req.TransferID, &groupID, domain.DirectionOut, req.FromAccount, req.Amount, req.Currency, req.Date),
		s.leg(domain.SourceInternalTransfer, req.TransferID, &groupID, domain.DirectionIn, req.ToAccount, req.Amount, req.Currency, req.Date),
	}
	if err := s.ensureLegs(ctx, domain.SourceInternalTransfer, req.TransferID, legs); err != nil {
		return nil, err
	}

	description := "Internal transfer " + req.TransferID
	run, err := s.engine.PostDocument(ctx, portssvc.PostRequest{
		DocType:     domain.DocTypeInternalTransfer,
		DocID:       req.TransferID,
		PostingDate: req.Date,
		Lines: []domain.PostingLine{
			{DebitAccount: domain.CashTransferClearing, CreditAccount: req.FromAccount, Amount: req.Amount, Currency: req.Currency, Description: description},
			{DebitAccount: req.ToAccount, CreditAccount: domain.CashTransferClearing, Amount: req.Amount, Currency: req.Currency, Description: description},
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.syncStatus(ctx, domain.SourceInternalTransfer, req.TransferID, domain.MoneyTxPosted, domain.MoneyTxPending); err != nil {
		return nil, err
	}
	logger.Info().Str("run_id", run.RunID).Msg("Internal transfer posted")
	return run, nil
}

// VoidInternalTransfer reverses the transfer and moves both legs to VOID together.
// Legs still PENDING from an earlier failed status update are voided too.
func (s *cashDocumentService) VoidInternalTransfer(ctx context.Context, transferID, reason string) (*domain.PostingRun, error) {
	run, err := s.engine.VoidDocument(ctx, domain.DocTypeInternalTransfer, transferID, reason)
	if err != nil {
		return nil, err
	}
	if err := s.syncStatus(ctx, domain.SourceInternalTransfer, transferID, domain.MoneyTxVoid, domain.MoneyTxPending, domain.MoneyTxPosted); err != nil {
		return nil, err
	}
	return run, nil
}

// PostPaymentExecution settles a payable from a cash account.
func (s *cashDocumentService) PostPaymentExecution(ctx context.Context, req portssvc.PaymentRequest) (*domain.PostingRun, error) {
	if strings.TrimSpace(req.PaymentID) == "" {
		return nil, apperrors.NewValidationError("paymentID is required")
	}
	if err := validateCash(req.Amount, req.Currency, req.Date); err != nil {
		return nil, err
	}

	leg := s.leg(domain.SourcePaymentExecution, req.PaymentID, nil, domain.DirectionOut, req.CashAccount, req.Amount, req.Currency, req.Date)
	if err := s.ensureLegs(ctx, domain.SourcePaymentExecution, req.PaymentID, []domain.MoneyTransaction{leg}); err != nil {
		return nil, err
	}

	run, err := s.engine.PostDocument(ctx, portssvc.PostRequest{
		DocType:     domain.DocTypePaymentExecution,
		DocID:       req.PaymentID,
		PostingDate: req.Date,
		Lines: []domain.PostingLine{{
			DebitAccount:  req.PayableAccount,
			CreditAccount: req.CashAccount,
			Amount:        req.Amount,
			Currency:      req.Currency,
			Description:   "Payment " + req.PaymentID,
		}},
	})
	if err != nil {
		return nil, err
	}
	if err := s.syncStatus(ctx, domain.SourcePaymentExecution, req.PaymentID, domain.MoneyTxPosted, domain.MoneyTxPending); err != nil {
		return nil, err
	}
	return run, nil
}

func validateCash(amount decimal.Decimal, currency string, date time.Time) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationError("amount must be positive")
	}
	if len(currency) != 3 {
		return apperrors.NewValidationError("currency must be a 3-letter code")
	}
	if date.IsZero() {
		return apperrors.NewValidationError("date is required")
	}
	return nil
}

func (s *cashDocumentService) leg(sourceType domain.MoneyTransactionSourceType, sourceID string, groupID *string, dir domain.MoneyDirection, account string, amount decimal.Decimal, currency string, at time.Time) domain.MoneyTransaction {
	now := s.now()
	return domain.MoneyTransaction{
		MoneyTxID:  uuid.NewString(),
		SourceType: sourceType,
		SourceID:   sourceID,
		GroupID:    groupID,
		Direction:  dir,
		Account:    account,
		Amount:     amount,
		Currency:   currency,
		OccurredAt: at,
		Status:     domain.MoneyTxPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
}

// ensureLegs stores the legs of a cash document. Legs are unique per source and
// direction, so concurrent attempts converge on one stored set, which must match legs.
func (s *cashDocumentService) ensureLegs(ctx context.Context, sourceType domain.MoneyTransactionSourceType, sourceID string, legs []domain.MoneyTransaction) error {
	if err := s.moneyTxRepo.SaveMoneyTransactions(ctx, legs); err != nil {
		return fmt.Errorf("failed to save money transactions: %w", err)
	}
	stored, err := s.moneyTxRepo.FindBySource(ctx, sourceType, sourceID)
	if err != nil {
		return fmt.Errorf("failed to load money transactions: %w", err)
	}
	if len(stored) != len(legs) {
		return fmt.Errorf("%w: %s %s has %d money transactions, expected %d", apperrors.ErrConflict, sourceType, sourceID, len(stored), len(legs))
	}
	byDirection := make(map[domain.MoneyDirection]domain.MoneyTransaction, len(stored))
	for _, st := range stored {
		byDirection[st.Direction] = st
	}
	for _, leg := range legs {
		st, ok := byDirection[leg.Direction]
		if !ok || st.Account != leg.Account || st.Currency != leg.Currency || !st.Amount.Equal(leg.Amount) {
			return fmt.Errorf("%w: %s %s was already recorded with different %s leg", apperrors.ErrConflict, sourceType, sourceID, leg.Direction)
		}
	}
	return nil
}

func (s *cashDocumentService) syncStatus(ctx context.Context, sourceType domain.MoneyTransactionSourceType, sourceID string, to domain.MoneyTransactionStatus, from ...domain.MoneyTransactionStatus) error {
	n, err := s.moneyTxRepo.UpdateStatusBySource(ctx, sourceType, sourceID, from, to)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("source_id", sourceID).Msg("Ledger updated but money transaction status was not")
		return fmt.Errorf("failed to update money transactions to %s: %w", to, err)
	}
	logging.FromContext(ctx).Debug().Int64("rows", n).Str("status", string(to)).Msg("Money transactions updated")
	return nil
}

// moneyTxDocumentLookup confirms a cash document exists by its money transactions.
type moneyTxDocumentLookup struct {
	repo       portsrepo.MoneyTransactionRepositoryFacade
	sourceType domain.MoneyTransactionSourceType
}

// NewMoneyTxDocumentLookup returns a DocumentLookup for documents of sourceType.
func NewMoneyTxDocumentLookup(repo portsrepo.MoneyTransactionRepositoryFacade, sourceType domain.MoneyTransactionSourceType) portssvc.DocumentLookup {
	return &moneyTxDocumentLookup{repo: repo, sourceType: sourceType}
}

func (l *moneyTxDocumentLookup) DocumentExists(ctx context.Context, docID string) (bool, error) {
	return l.repo.SourceExists(ctx, l.sourceType, docID)
}
