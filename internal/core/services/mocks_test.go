package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- Mock CurrencyRateRepository ---
type MockCurrencyRateRepository struct {
	mock.Mock
}

func (m *MockCurrencyRateRepository) FindLatestRate(ctx context.Context, currency string, asOf time.Time) (*domain.CurrencyRate, error) {
	args := m.Called(ctx, currency, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyRate), args.Error(1)
}

func (m *MockCurrencyRateRepository) ListRates(ctx context.Context, currency string, limit int) ([]domain.CurrencyRate, error) {
	args := m.Called(ctx, currency, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CurrencyRate), args.Error(1)
}

func (m *MockCurrencyRateRepository) UpsertRate(ctx context.Context, rate domain.CurrencyRate) (*domain.CurrencyRate, error) {
	args := m.Called(ctx, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyRate), args.Error(1)
}

// --- Mock AccountCatalog ---
type MockAccountCatalog struct {
	mock.Mock
}

func (m *MockAccountCatalog) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountCatalog) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountCatalog) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

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

// --- Mock RecurringJournalRepository ---
type MockRecurringJournalRepository struct {
	mock.Mock
}

func (m *MockRecurringJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.RecurringJournal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringJournal), args.Error(1)
}

func (m *MockRecurringJournalRepository) ListActiveJournals(ctx context.Context, filter portsrepo.JournalFilter) ([]domain.RecurringJournal, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringJournal), args.Error(1)
}

func (m *MockRecurringJournalRepository) FindRun(ctx context.Context, journalID, periodKey string) (*domain.RecurringJournalRun, error) {
	args := m.Called(ctx, journalID, periodKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringJournalRun), args.Error(1)
}

func (m *MockRecurringJournalRepository) ListRuns(ctx context.Context, journalID string, from, to *time.Time) ([]domain.RecurringJournalRun, error) {
	args := m.Called(ctx, journalID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringJournalRun), args.Error(1)
}

func (m *MockRecurringJournalRepository) SaveJournal(ctx context.Context, journal domain.RecurringJournal) error {
	return m.Called(ctx, journal).Error(0)
}

func (m *MockRecurringJournalRepository) ArchiveJournal(ctx context.Context, journalID string) error {
	return m.Called(ctx, journalID).Error(0)
}

func (m *MockRecurringJournalRepository) ClaimPeriod(ctx context.Context, run domain.RecurringJournalRun) error {
	return m.Called(ctx, run).Error(0)
}

func (m *MockRecurringJournalRepository) MarkRunPosted(ctx context.Context, runID, postingRunID string) error {
	return m.Called(ctx, runID, postingRunID).Error(0)
}

func (m *MockRecurringJournalRepository) MarkRunError(ctx context.Context, runID, message string) error {
	return m.Called(ctx, runID, message).Error(0)
}

func (m *MockRecurringJournalRepository) ReclaimRun(ctx context.Context, journalID, periodKey string, staleBefore time.Time) (*domain.RecurringJournalRun, error) {
	args := m.Called(ctx, journalID, periodKey, staleBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringJournalRun), args.Error(1)
}

// --- Mock MoneyTransactionRepository ---
type MockMoneyTransactionRepository struct {
	mock.Mock
}

func (m *MockMoneyTransactionRepository) SaveMoneyTransactions(ctx context.Context, txs []domain.MoneyTransaction) error {
	return m.Called(ctx, txs).Error(0)
}

func (m *MockMoneyTransactionRepository) FindBySource(ctx context.Context, sourceType domain.MoneyTransactionSourceType, sourceID string) ([]domain.MoneyTransaction, error) {
	args := m.Called(ctx, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MoneyTransaction), args.Error(1)
}

func (m *MockMoneyTransactionRepository) UpdateStatusBySource(ctx context.Context, sourceType domain.MoneyTransactionSourceType, sourceID string, from []domain.MoneyTransactionStatus, to domain.MoneyTransactionStatus) (int64, error) {
	args := m.Called(ctx, sourceType, sourceID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMoneyTransactionRepository) SourceExists(ctx context.Context, sourceType domain.MoneyTransactionSourceType, sourceID string) (bool, error) {
	args := m.Called(ctx, sourceType, sourceID)
	return args.Bool(0), args.Error(1)
}

// --- Mock LedgerQueryRepository ---
type MockLedgerQueryRepository struct {
	mock.Mock
}

func (m *MockLedgerQueryRepository) ListEntries(ctx context.Context, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), next, args.Error(2)
}

func (m *MockLedgerQueryRepository) ListRunsByStatus(ctx context.Context, status domain.PostingRunStatus, limit int, nextToken *string) ([]domain.PostingRun, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.PostingRun), next, args.Error(2)
}

func (m *MockLedgerQueryRepository) FindRunsByDocument(ctx context.Context, ref domain.DocumentRef) ([]domain.PostingRun, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PostingRun), args.Error(1)
}

func (m *MockLedgerQueryRepository) AccountTotals(ctx context.Context, account string, asOf time.Time, includeVoided bool) (*portsrepo.AccountTotals, error) {
	args := m.Called(ctx, account, asOf, includeVoided)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.AccountTotals), args.Error(1)
}

// --- Mock AuditRepository ---
type MockAuditRepository struct {
	mock.Mock
	Reader *MockAuditReader
}

func (m *MockAuditRepository) Snapshot(ctx context.Context, fn func(r portsrepo.AuditReader) error) error {
	if err := m.Called(ctx).Error(0); err != nil {
		return err
	}
	return fn(m.Reader)
}

type MockAuditReader struct {
	mock.Mock
}

func (m *MockAuditReader) FindDuplicatePostedRuns(ctx context.Context) ([]portsrepo.DuplicatePosted, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.DuplicatePosted), args.Error(1)
}

func (m *MockAuditReader) FindOrphanEntries(ctx context.Context, docTypes []domain.DocType, createdAfter *time.Time) ([]portsrepo.OrphanEntry, error) {
	args := m.Called(ctx, docTypes, createdAfter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.OrphanEntry), args.Error(1)
}

func (m *MockAuditReader) FindPostedPaymentsWithoutEntries(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAuditReader) FindTransfersWithMixedStatus(ctx context.Context) ([]portsrepo.MixedTransfer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.MixedTransfer), args.Error(1)
}

func (m *MockAuditReader) FindPostedRunsWithoutEntries(ctx context.Context) ([]domain.PostingRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PostingRun), args.Error(1)
}

func (m *MockAuditReader) FindStaleClaims(ctx context.Context, claimedBefore time.Time) ([]portsrepo.StaleClaim, error) {
	args := m.Called(ctx, claimedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.StaleClaim), args.Error(1)
}
