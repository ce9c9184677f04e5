package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting/internal/models"
	"github.com/SscSPs/ledger_posting/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAccountRepository reads the chart of accounts.
type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountCatalog = (*PgxAccountRepository)(nil)

func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	rows, err := r.Pool.Query(ctx,
		`SELECT code, name, account_type, is_active FROM accounts WHERE code = ANY($1)`, codes)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan accounts", err)
	}
	for _, m := range ms {
		result[m.Code] = mapping.ToDomainAccount(m)
	}
	return result, nil
}

func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT code, name, account_type, is_active FROM accounts WHERE code = $1`, code)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query account", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account " + code)
		}
		return nil, apperrors.NewAppError(500, "failed to scan account", err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.Pool.Query(ctx, `SELECT code, name, account_type, is_active FROM accounts ORDER BY code`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounts", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan accounts", err)
	}
	out := make([]domain.Account, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainAccount(m)
	}
	return out, nil
}
