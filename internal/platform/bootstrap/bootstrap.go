// Package bootstrap wires the process-level infrastructure shared by every binary.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_posting/internal/core/services"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/platform/config"
	"github.com/SscSPs/ledger_posting/internal/platform/lock"
	"github.com/SscSPs/ledger_posting/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_posting/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// Runtime owns the connections a binary needs and the services built on them.
type Runtime struct {
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Locker   lock.Locker
	Services *portssvc.ServiceContainer
}

// Open connects to Postgres, applies migrations when enabled, connects to Redis
// when configured and builds the service container.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer) (*Runtime, error) {
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{MaxConns: cfg.DBMaxConns})
	if err != nil {
		return nil, fmt.Errorf("initialize database pool: %w", err)
	}
	logger.Info().Msg("Database connection pool established.")

	if cfg.RunMigrations {
		applied, err := database.MigrateUp(cfg.DatabaseURL)
		if err != nil {
			pool.Close()
			return nil, err
		}
		if applied {
			logger.Info().Msg("Database migrations applied successfully.")
		} else {
			logger.Info().Msg("No new migrations to apply.")
		}
	}

	rt := &Runtime{Pool: pool, Locker: lock.NoopLocker{}}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			pool.Close()
			_ = rdb.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		rt.Redis = rdb
		rt.Locker = lock.NewRedisLocker(rdb, cfg.BatchLockTTL)
		logger.Info().Str("redis_addr", cfg.RedisAddr).Msg("Redis batch lock enabled.")
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; batch runs are not serialized across processes.")
	}

	rt.Services = services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool), services.Infra{
		Pool:       pool,
		Locker:     rt.Locker,
		Registerer: reg,
	})
	return rt, nil
}

// Close releases Redis and the pool.
func (rt *Runtime) Close() error {
	var err error
	if rt.Redis != nil {
		err = multierr.Append(err, rt.Redis.Close())
	}
	database.ClosePgxPool(rt.Pool)
	return err
}
