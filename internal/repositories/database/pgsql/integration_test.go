package pgsql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/core/services"
	"github.com/SscSPs/ledger_posting/internal/platform/config"
	"github.com/SscSPs/ledger_posting/internal/platform/lock"
	"github.com/SscSPs/ledger_posting/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_posting/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Shared container for all integration tests in this package. Tests use unique
// document ids so they can share one database.
var (
	sharedOnce sync.Once
	sharedPool *pgxpool.Pool
	sharedErr  error
)

func integrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("LEDGER_INTEGRATION") != "1" {
		t.Skip("set LEDGER_INTEGRATION=1 to run Postgres integration tests")
	}

	sharedOnce.Do(func() {
		ctx := context.Background()
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("ledger_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			sharedErr = fmt.Errorf("start postgres container: %w", err)
			return
		}
		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			sharedErr = err
			return
		}
		if _, err := database.MigrateUp(dsn); err != nil {
			sharedErr = err
			return
		}
		sharedPool, sharedErr = database.NewPgxPool(ctx, dsn, database.PoolOptions{MaxConns: 32})
	})
	require.NoError(t, sharedErr)
	return sharedPool
}

func newContainer(t *testing.T) (*portssvc.ServiceContainer, *pgxpool.Pool) {
	pool := integrationPool(t)
	cfg := &config.Config{BaseCurrency: "RUB", BaseCurrencyScale: 2, RecurringConcurrency: 2}
	return services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool), services.Infra{
		Pool:   pool,
		Locker: lock.NoopLocker{},
	}), pool
}

func salesRequest(docID string, amount int64, currency string) portssvc.PostRequest {
	return portssvc.PostRequest{
		DocType:     domain.DocTypeSalesDocument,
		DocID:       docID,
		PostingDate: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Lines: []domain.PostingLine{{
			DebitAccount:  "AR",
			CreditAccount: "REVENUE",
			Amount:        decimal.NewFromInt(amount),
			Currency:      currency,
			Description:   "sale " + docID,
		}},
	}
}

func countRows(t *testing.T, pool *pgxpool.Pool, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}

func docEntries(t *testing.T, svc *portssvc.ServiceContainer, docType domain.DocType, docID string) []domain.LedgerEntry {
	t.Helper()
	entries, _, err := svc.Ledger.ListEntries(context.Background(), portsrepo.EntryFilter{
		DocType: &docType, DocID: &docID, IncludeVoided: true,
	}, 1000, nil)
	require.NoError(t, err)
	return entries
}

func TestIntegration_ConcurrentPostCreatesOneRun(t *testing.T) {
	svc, pool := newContainer(t)
	ctx := context.Background()
	docID := "S-" + uuid.NewString()

	const workers = 16
	runIDs := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			run, err := svc.Posting.PostDocument(ctx, salesRequest(docID, 1000, "RUB"))
			errs[i] = err
			if run != nil {
				runIDs[i] = run.RunID
			}
		}(i)
	}
	close(start)
	wg.Wait()

	for i := range errs {
		require.NoError(t, errs[i], "worker %d", i)
		assert.Equal(t, runIDs[0], runIDs[i])
	}
	assert.Equal(t, 1, countRows(t, pool,
		"SELECT count(*) FROM posting_runs WHERE doc_type = $1 AND doc_id = $2 AND status = 'POSTED'",
		string(domain.DocTypeSalesDocument), docID))
	assert.Len(t, docEntries(t, svc, domain.DocTypeSalesDocument, docID), 1)
}

func TestIntegration_PostRetryVoid(t *testing.T) {
	svc, _ := newContainer(t)
	ctx := context.Background()
	docID := "S-" + uuid.NewString()

	first, err := svc.Posting.PostDocument(ctx, salesRequest(docID, 1000, "RUB"))
	require.NoError(t, err)
	again, err := svc.Posting.PostDocument(ctx, salesRequest(docID, 1000, "RUB"))
	require.NoError(t, err)
	assert.Equal(t, first.RunID, again.RunID)

	reversal, err := svc.Posting.VoidDocument(ctx, domain.DocTypeSalesDocument, docID, "customer cancelled")
	require.NoError(t, err)
	assert.True(t, reversal.IsReversal())
	require.NotNil(t, reversal.ReversalOfRunID)
	assert.Equal(t, first.RunID, *reversal.ReversalOfRunID)

	voidAgain, err := svc.Posting.VoidDocument(ctx, domain.DocTypeSalesDocument, docID, "customer cancelled")
	require.NoError(t, err)
	assert.Equal(t, reversal.RunID, voidAgain.RunID)

	_, err = svc.Posting.PostDocument(ctx, salesRequest(docID, 1000, "RUB"))
	assert.ErrorIs(t, err, apperrors.ErrDocumentVoided)

	entries := docEntries(t, svc, domain.DocTypeSalesDocument, docID)
	require.Len(t, entries, 2)
	for account, net := range domain.NetByAccount(entries) {
		assert.True(t, net.IsZero(), "account %s nets to %s", account, net)
	}

	runs, err := svc.Ledger.FindRunsByDocument(ctx, domain.DocumentRef{DocType: domain.DocTypeSalesDocument, DocID: docID})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	posted, err := svc.Posting.IsPosted(ctx, domain.DocTypeSalesDocument, docID)
	require.NoError(t, err)
	assert.False(t, posted)
}

func TestIntegration_MissingRateWritesNothing(t *testing.T) {
	svc, pool := newContainer(t)
	docID := "S-" + uuid.NewString()

	_, err := svc.Posting.PostDocument(context.Background(), salesRequest(docID, 10, "EUR"))

	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
	assert.Zero(t, countRows(t, pool, "SELECT count(*) FROM posting_runs WHERE doc_id = $1", docID))
	assert.Zero(t, countRows(t, pool, "SELECT count(*) FROM ledger_entries WHERE doc_id = $1", docID))
}

func TestIntegration_ConvertsWithLatestRate(t *testing.T) {
	svc, _ := newContainer(t)
	ctx := context.Background()
	docID := "S-" + uuid.NewString()
	currency := "USD"

	_, err := svc.CurrencyRates.RecordRate(ctx, currency, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), decimal.RequireFromString("90.25"))
	require.NoError(t, err)

	req := salesRequest(docID, 0, currency)
	req.Lines[0].Amount = decimal.RequireFromString("10.10")
	_, err = svc.Posting.PostDocument(ctx, req)
	require.NoError(t, err)

	entries := docEntries(t, svc, domain.DocTypeSalesDocument, docID)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].AmountBase.Equal(decimal.RequireFromString("911.53")), "got %s", entries[0].AmountBase)
}

func TestIntegration_RecurringBatchIsIdempotent(t *testing.T) {
	svc, _ := newContainer(t)
	ctx := context.Background()

	journal, err := svc.Recurring.CreateJournal(ctx, portssvc.CreateJournalRequest{
		JournalType:   domain.JournalDepreciation,
		DebitAccount:  "DEPRECIATION_EXPENSE",
		CreditAccount: "ACCUMULATED_DEPRECIATION",
		Amount:        decimal.NewFromInt(500),
		Currency:      "RUB",
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	req := portssvc.BatchRequest{
		JournalID: &journal.JournalID,
		From:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	first, err := svc.Recurring.RunBatch(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Count(domain.RecurringRunPosted))
	require.NoError(t, first.Err())

	second, err := svc.Recurring.RunBatch(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 3, second.Count(domain.RecurringRunSkipped))

	runs, err := svc.Recurring.ListRuns(ctx, journal.JournalID, nil, nil)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "2024-01", runs[0].PeriodKey)

	docID := fmt.Sprintf("recurring:%s:2024-02", journal.JournalID)
	posted, err := svc.Posting.IsPosted(ctx, domain.DocTypeFinancialDocumentRecognition, docID)
	require.NoError(t, err)
	assert.True(t, posted)
}

func TestIntegration_TransferAndAudit(t *testing.T) {
	svc, pool := newContainer(t)
	ctx := context.Background()
	transferID := "T-" + uuid.NewString()

	run, err := svc.CashDocuments.PostInternalTransfer(ctx, portssvc.TransferRequest{
		TransferID:  transferID,
		FromAccount: "BANK_MAIN",
		ToAccount:   "BANK_RESERVE",
		Amount:      decimal.NewFromInt(250),
		Currency:    "RUB",
		Date:        time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RunPosted, run.Status)
	assert.Equal(t, 2, countRows(t, pool,
		"SELECT count(*) FROM money_transactions WHERE group_id = $1 AND status = 'POSTED'", transferID))

	violations, err := svc.Auditor.CheckAll(ctx)
	require.NoError(t, err)
	for _, v := range violations {
		assert.NotEqual(t, transferID, v.Ref.DocID, "unexpected violation %+v", v)
	}

	// a controlled entry written outside the engine is reported
	orphanDoc := "S-" + uuid.NewString()
	_, err = pool.Exec(ctx, `
		INSERT INTO ledger_entries (entry_id, doc_type, doc_id, line_number, debit_account, credit_account,
			amount, currency, amount_base, posting_date)
		VALUES ($1, $2, $3, 1, 'AR', 'REVENUE', 5, 'RUB', 5, now())`,
		uuid.NewString(), string(domain.DocTypeSalesDocument), orphanDoc)
	require.NoError(t, err)

	violations, err = svc.Auditor.CheckAll(ctx)
	require.NoError(t, err)
	found := false
	for _, v := range violations {
		if v.Code == domain.ViolationOrphanControlledEntry && v.Ref.DocID == orphanDoc {
			found = true
		}
	}
	assert.True(t, found, "orphan entry for %s not reported", orphanDoc)
}

func TestIntegration_ConcurrentTransferRetriesKeepTwoLegs(t *testing.T) {
	svc, pool := newContainer(t)
	ctx := context.Background()
	transferID := "T-" + uuid.NewString()
	req := portssvc.TransferRequest{
		TransferID:  transferID,
		FromAccount: "BANK_MAIN",
		ToAccount:   "BANK_RESERVE",
		Amount:      decimal.NewFromInt(75),
		Currency:    "RUB",
		Date:        time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
	}

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.CashDocuments.PostInternalTransfer(ctx, req)
		}(i)
	}
	close(start)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 2, countRows(t, pool, "SELECT count(*) FROM money_transactions WHERE source_id = $1", transferID))
	assert.Equal(t, 2, countRows(t, pool,
		"SELECT count(*) FROM money_transactions WHERE group_id = $1 AND status = 'POSTED'", transferID))

	_, err := svc.CashDocuments.PostInternalTransfer(ctx, req)
	require.NoError(t, err)

	changed := req
	changed.Amount = decimal.NewFromInt(80)
	_, err = svc.CashDocuments.PostInternalTransfer(ctx, changed)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestIntegration_LedgerEntriesAreAppendOnly(t *testing.T) {
	svc, pool := newContainer(t)
	ctx := context.Background()
	docID := "S-" + uuid.NewString()

	_, err := svc.Posting.PostDocument(ctx, salesRequest(docID, 40, "RUB"))
	require.NoError(t, err)

	_, err = pool.Exec(ctx, "UPDATE ledger_entries SET amount = 1 WHERE doc_id = $1", docID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append-only")

	_, err = pool.Exec(ctx, "DELETE FROM ledger_entries WHERE doc_id = $1", docID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append-only")

	entries := docEntries(t, svc, domain.DocTypeSalesDocument, docID)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(40)))
}

func TestIntegration_StaleRecurringClaimIsReportedAndRecovered(t *testing.T) {
	svc, pool := newContainer(t)
	ctx := context.Background()

	journal, err := svc.Recurring.CreateJournal(ctx, portssvc.CreateJournalRequest{
		JournalType:   domain.JournalDepreciation,
		DebitAccount:  "DEPRECIATION_EXPENSE",
		CreditAccount: "ACCUMULATED_DEPRECIATION",
		Amount:        decimal.NewFromInt(120),
		Currency:      "RUB",
		StartDate:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// a batch that died between claiming and recording an outcome
	_, err = pool.Exec(ctx, `
		INSERT INTO recurring_journal_runs (run_id, journal_id, period_key, period_start, period_end, status, run_at)
		VALUES ($1, $2, '2024-05', '2024-05-01', '2024-06-01', 'CLAIMED', now() - interval '2 hours')`,
		uuid.NewString(), journal.JournalID)
	require.NoError(t, err)

	violations, err := svc.Auditor.CheckAll(ctx)
	require.NoError(t, err)
	docID := fmt.Sprintf("recurring:%s:2024-05", journal.JournalID)
	found := false
	for _, v := range violations {
		if v.Code == domain.ViolationStaleRecurringClaim && v.Ref.DocID == docID {
			found = true
		}
	}
	assert.True(t, found, "stale claim for %s not reported", docID)

	item, err := svc.Recurring.RetryPeriod(ctx, journal.JournalID, "2024-05")
	require.NoError(t, err)
	assert.Equal(t, domain.RecurringRunPosted, item.Status)

	posted, err := svc.Posting.IsPosted(ctx, domain.DocTypeFinancialDocumentRecognition, docID)
	require.NoError(t, err)
	assert.True(t, posted)

	_, err = svc.Recurring.RetryPeriod(ctx, journal.JournalID, "2024-05")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
