package services

// ServiceContainer holds all service interfaces used by the transport layer.
type ServiceContainer struct {
	Posting       PostingEngine
	CurrencyRates CurrencyRateSvcFacade
	Recurring     RecurringJournalSvcFacade
	Auditor       IntegrityAuditor
	Ledger        LedgerReadSvcFacade
	CashDocuments CashDocumentSvcFacade
}
