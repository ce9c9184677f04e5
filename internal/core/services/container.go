package services

import (
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/core/posting"
	"github.com/SscSPs/ledger_posting/internal/platform/config"
	"github.com/SscSPs/ledger_posting/internal/platform/lock"
	"github.com/SscSPs/ledger_posting/internal/platform/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// Infra holds the shared infrastructure services are built on.
type Infra struct {
	Pool       *pgxpool.Pool
	Locker     lock.Locker
	Registerer prometheus.Registerer
}

// NewServiceContainer wires the posting engine and every service around it.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, infra Infra) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.CurrencyRates = NewCurrencyService(repos.CurrencyRateRepo, cfg.BaseCurrency, cfg.BaseCurrencyScale)

	container.Posting = posting.NewEngine(
		infra.Pool,
		repos.AccountCatalog,
		container.CurrencyRates,
		posting.WithMetrics(metrics.NewPostingMetrics(infra.Registerer)),
		posting.WithDocumentLookup(domain.DocTypeInternalTransfer, NewMoneyTxDocumentLookup(repos.MoneyTxRepo, domain.SourceInternalTransfer)),
		posting.WithDocumentLookup(domain.DocTypePaymentExecution, NewMoneyTxDocumentLookup(repos.MoneyTxRepo, domain.SourcePaymentExecution)),
	)

	container.Recurring = NewRecurringJournalService(
		repos.RecurringRepo,
		repos.AccountCatalog,
		container.Posting,
		WithBatchLocker(infra.Locker),
		WithBatchMetrics(metrics.NewBatchMetrics(infra.Registerer)),
		WithConcurrency(cfg.RecurringConcurrency),
		WithStaleClaimAfter(cfg.StaleClaimAfter),
	)

	container.Auditor = NewIntegrityAuditor(repos.AuditRepo, cfg.AuditLegacyCutoff, cfg.StaleClaimAfter)
	container.Ledger = NewLedgerReadService(repos.LedgerQueryRepo, repos.AccountCatalog)
	container.CashDocuments = NewCashDocumentService(repos.MoneyTxRepo, container.Posting)

	return container
}
