package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting/internal/models"
	"github.com/SscSPs/ledger_posting/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const currencyRateColumns = `rate_id, currency, rate_date, rate, created_at, last_updated_at`

// PgxCurrencyRateRepository implements portsrepo.CurrencyRateRepositoryFacade using pgxpool.
type PgxCurrencyRateRepository struct {
	BaseRepository
}

func newPgxCurrencyRateRepository(pool *pgxpool.Pool) *PgxCurrencyRateRepository {
	return &PgxCurrencyRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CurrencyRateRepositoryFacade = (*PgxCurrencyRateRepository)(nil)

// UpsertRate inserts the rate for (currency, day) or replaces the stored rate.
// Ledger entries keep the base amount they were posted with.
func (r *PgxCurrencyRateRepository) UpsertRate(ctx context.Context, rate domain.CurrencyRate) (*domain.CurrencyRate, error) {
	m := mapping.ToModelCurrencyRate(rate)
	m.Currency = strings.ToUpper(m.Currency)
	m.RateDate = domain.RateDay(m.RateDate)
	if m.RateID == "" {
		m.RateID = uuid.NewString()
	}

	query := `
		INSERT INTO currency_rates (rate_id, currency, rate_date, rate, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (currency, rate_date)
		DO UPDATE SET rate = EXCLUDED.rate, last_updated_at = EXCLUDED.last_updated_at
		RETURNING ` + currencyRateColumns

	rows, err := r.Pool.Query(ctx, query, m.RateID, m.Currency, m.RateDate, m.Rate, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to save currency rate", err)
	}
	saved, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.CurrencyRate])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to save currency rate", err)
	}
	out := mapping.ToDomainCurrencyRate(saved)
	return &out, nil
}

// FindLatestRate returns the newest rate on or before the UTC day of asOf.
func (r *PgxCurrencyRateRepository) FindLatestRate(ctx context.Context, currency string, asOf time.Time) (*domain.CurrencyRate, error) {
	query := `
		SELECT ` + currencyRateColumns + `
		FROM currency_rates
		WHERE currency = $1 AND rate_date <= $2
		ORDER BY rate_date DESC
		LIMIT 1`

	rows, err := r.Pool.Query(ctx, query, strings.ToUpper(currency), domain.RateDay(asOf))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query currency rate", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.CurrencyRate])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: rate for %s on or before %s", apperrors.ErrNotFound, currency, asOf.UTC().Format(time.DateOnly))
		}
		return nil, apperrors.NewAppError(500, "failed to scan currency rate", err)
	}
	out := mapping.ToDomainCurrencyRate(m)
	return &out, nil
}

// ListRates returns the most recent rates for a currency, newest first.
func (r *PgxCurrencyRateRepository) ListRates(ctx context.Context, currency string, limit int) ([]domain.CurrencyRate, error) {
	if limit <= 0 {
		limit = 30
	}
	query := `
		SELECT ` + currencyRateColumns + `
		FROM currency_rates
		WHERE currency = $1
		ORDER BY rate_date DESC
		LIMIT $2`

	rows, err := r.Pool.Query(ctx, query, strings.ToUpper(currency), limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list currency rates", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CurrencyRate])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan currency rates", err)
	}
	out := make([]domain.CurrencyRate, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainCurrencyRate(m)
	}
	return out, nil
}
