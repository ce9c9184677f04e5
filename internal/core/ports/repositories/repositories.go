package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountCatalog   AccountCatalog
	CurrencyRateRepo CurrencyRateRepositoryFacade
	LedgerQueryRepo  LedgerQueryRepository
	RecurringRepo    RecurringJournalRepositoryFacade
	MoneyTxRepo      MoneyTransactionRepositoryFacade
	AuditRepo        AuditRepository
}
