package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every read/maintenance repository. Ledger writes are
// not here; they live behind the posting engine.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountCatalog:   newPgxAccountRepository(dbPool),
		CurrencyRateRepo: newPgxCurrencyRateRepository(dbPool),
		LedgerQueryRepo:  newPgxLedgerQueryRepository(dbPool),
		RecurringRepo:    newPgxRecurringJournalRepository(dbPool),
		MoneyTxRepo:      newPgxMoneyTransactionRepository(dbPool),
		AuditRepo:        newPgxAuditRepository(dbPool),
	}
}
