package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	LogLevel      string
	LogFormat     string
	ServiceName   string
	DBMaxConns    int32
	RunMigrations bool

	BaseCurrency      string
	BaseCurrencyScale int32

	RedisAddr     string
	RedisPassword string
	BatchLockTTL  time.Duration

	RecurringConcurrency int
	// StaleClaimAfter is how long a recurring period may stay CLAIMED before it
	// counts as abandoned.
	StaleClaimAfter   time.Duration
	AuditLegacyCutoff *time.Time

	RateLimit          string
	TracingEnabled     bool
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SERVICE_NAME", "ledger-posting")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("BASE_CURRENCY", "RUB")
	v.SetDefault("BASE_CURRENCY_SCALE", 2)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("BATCH_LOCK_TTL", "10m")
	v.SetDefault("RECURRING_CONCURRENCY", 4)
	v.SetDefault("RECURRING_STALE_CLAIM_AFTER", "15m")
	v.SetDefault("AUDIT_LEGACY_CUTOFF", "")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("TRACING_ENABLED", true)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:          v.GetString("PGSQL_URL"),
		Port:                 v.GetString("PORT"),
		IsProduction:         v.GetBool("IS_PRODUCTION"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogFormat:            v.GetString("LOG_FORMAT"),
		ServiceName:          v.GetString("SERVICE_NAME"),
		DBMaxConns:           v.GetInt32("DB_MAX_CONNS"),
		RunMigrations:        v.GetBool("RUN_MIGRATIONS"),
		BaseCurrency:         strings.ToUpper(strings.TrimSpace(v.GetString("BASE_CURRENCY"))),
		BaseCurrencyScale:    v.GetInt32("BASE_CURRENCY_SCALE"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RecurringConcurrency: v.GetInt("RECURRING_CONCURRENCY"),
		RateLimit:            v.GetString("RATE_LIMIT"),
		TracingEnabled:       v.GetBool("TRACING_ENABLED"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if len(cfg.BaseCurrency) != 3 {
		return nil, fmt.Errorf("BASE_CURRENCY must be a 3-letter code, got %q", cfg.BaseCurrency)
	}
	if cfg.BaseCurrencyScale < 0 || cfg.BaseCurrencyScale > 6 {
		return nil, fmt.Errorf("BASE_CURRENCY_SCALE must be between 0 and 6, got %d", cfg.BaseCurrencyScale)
	}

	lockTTLStr := v.GetString("BATCH_LOCK_TTL")
	lockTTL, err := time.ParseDuration(lockTTLStr)
	if err != nil || lockTTL <= 0 {
		lockTTL = 10 * time.Minute
		log.Printf("Warning: Invalid value for BATCH_LOCK_TTL ('%s'). Defaulting to %s.\n", lockTTLStr, lockTTL)
	}
	cfg.BatchLockTTL = lockTTL

	staleStr := v.GetString("RECURRING_STALE_CLAIM_AFTER")
	staleAfter, err := time.ParseDuration(staleStr)
	if err != nil || staleAfter <= 0 {
		staleAfter = 15 * time.Minute
		log.Printf("Warning: Invalid value for RECURRING_STALE_CLAIM_AFTER ('%s'). Defaulting to %s.\n", staleStr, staleAfter)
	}
	cfg.StaleClaimAfter = staleAfter

	if cfg.RecurringConcurrency <= 0 {
		log.Printf("Warning: RECURRING_CONCURRENCY must be positive, got %d. Defaulting to 1.\n", cfg.RecurringConcurrency)
		cfg.RecurringConcurrency = 1
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if raw := strings.TrimSpace(v.GetString("AUDIT_LEGACY_CUTOFF")); raw != "" {
		cutoff, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("AUDIT_LEGACY_CUTOFF must be RFC3339: %w", err)
		}
		cfg.AuditLegacyCutoff = &cutoff
	}

	return cfg, nil
}
