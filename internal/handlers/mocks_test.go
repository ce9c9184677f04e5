package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock PostingEngine ---
type MockPostingEngine struct {
	mock.Mock
}

func (m *MockPostingEngine) PostDocument(ctx context.Context, req portssvc.PostRequest) (*domain.PostingRun, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingRun), args.Error(1)
}
func (m *MockPostingEngine) VoidDocument(ctx context.Context, docType domain.DocType, docID, reason string) (*domain.PostingRun, error) {
	args := m.Called(ctx, docType, docID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingRun), args.Error(1)
}
func (m *MockPostingEngine) IsPosted(ctx context.Context, docType domain.DocType, docID string) (bool, error) {
	args := m.Called(ctx, docType, docID)
	return args.Bool(0), args.Error(1)
}

var _ portssvc.PostingEngine = (*MockPostingEngine)(nil)

// --- Mock LedgerReadSvcFacade ---
type MockLedgerReadService struct {
	mock.Mock
}

func (m *MockLedgerReadService) ListEntries(ctx context.Context, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	next, _ := args.Get(1).(*string)
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), next, args.Error(2)
}
func (m *MockLedgerReadService) ListRunsByStatus(ctx context.Context, status domain.PostingRunStatus, limit int, nextToken *string) ([]domain.PostingRun, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	next, _ := args.Get(1).(*string)
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.PostingRun), next, args.Error(2)
}
func (m *MockLedgerReadService) FindRunsByDocument(ctx context.Context, ref domain.DocumentRef) ([]domain.PostingRun, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PostingRun), args.Error(1)
}
func (m *MockLedgerReadService) AccountBalance(ctx context.Context, accountCode string, asOf time.Time, includeVoided bool) (*portssvc.AccountBalance, error) {
	args := m.Called(ctx, accountCode, asOf, includeVoided)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.AccountBalance), args.Error(1)
}

var _ portssvc.LedgerReadSvcFacade = (*MockLedgerReadService)(nil)

// --- Mock CurrencyRateSvcFacade ---
type MockCurrencyRateService struct {
	mock.Mock
}

func (m *MockCurrencyRateService) BaseCurrency() string { return "RUB" }
func (m *MockCurrencyRateService) ToBase(ctx context.Context, amount decimal.Decimal, currency string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, amount, currency, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockCurrencyRateService) RecordRate(ctx context.Context, currency string, rateDate time.Time, rate decimal.Decimal) (*domain.CurrencyRate, error) {
	args := m.Called(ctx, currency, rateDate, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyRate), args.Error(1)
}
func (m *MockCurrencyRateService) RateAsOf(ctx context.Context, currency string, asOf time.Time) (*domain.CurrencyRate, error) {
	args := m.Called(ctx, currency, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyRate), args.Error(1)
}

var _ portssvc.CurrencyRateSvcFacade = (*MockCurrencyRateService)(nil)

// --- Mock RecurringJournalSvcFacade ---
type MockRecurringJournalService struct {
	mock.Mock
}

func (m *MockRecurringJournalService) RunBatch(ctx context.Context, req portssvc.BatchRequest) (*portssvc.BatchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.BatchResult), args.Error(1)
}
func (m *MockRecurringJournalService) RetryPeriod(ctx context.Context, journalID, periodKey string) (*portssvc.BatchItem, error) {
	args := m.Called(ctx, journalID, periodKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.BatchItem), args.Error(1)
}
func (m *MockRecurringJournalService) CreateJournal(ctx context.Context, req portssvc.CreateJournalRequest) (*domain.RecurringJournal, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringJournal), args.Error(1)
}
func (m *MockRecurringJournalService) ArchiveJournal(ctx context.Context, journalID string) error {
	return m.Called(ctx, journalID).Error(0)
}
func (m *MockRecurringJournalService) ListRuns(ctx context.Context, journalID string, from, to *time.Time) ([]domain.RecurringJournalRun, error) {
	args := m.Called(ctx, journalID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringJournalRun), args.Error(1)
}

var _ portssvc.RecurringJournalSvcFacade = (*MockRecurringJournalService)(nil)

// --- Mock CashDocumentSvcFacade ---
type MockCashDocumentService struct {
	mock.Mock
}

func (m *MockCashDocumentService) PostInternalTransfer(ctx context.Context, req portssvc.TransferRequest) (*domain.PostingRun, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingRun), args.Error(1)
}
func (m *MockCashDocumentService) VoidInternalTransfer(ctx context.Context, transferID, reason string) (*domain.PostingRun, error) {
	args := m.Called(ctx, transferID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingRun), args.Error(1)
}
func (m *MockCashDocumentService) PostPaymentExecution(ctx context.Context, req portssvc.PaymentRequest) (*domain.PostingRun, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingRun), args.Error(1)
}

var _ portssvc.CashDocumentSvcFacade = (*MockCashDocumentService)(nil)

// --- Mock IntegrityAuditor ---
type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) CheckAll(ctx context.Context) ([]domain.Violation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Violation), args.Error(1)
}

var _ portssvc.IntegrityAuditor = (*MockAuditor)(nil)
