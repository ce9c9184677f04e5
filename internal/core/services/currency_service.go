package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/platform/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// currencyService converts amounts into the base currency using the latest
// rate on or before the requested day.
type currencyService struct {
	rateRepo     portsrepo.CurrencyRateRepositoryFacade
	baseCurrency string
	scale        int32
	now          func() time.Time
}

// NewCurrencyService creates the currency conversion service. scale is the number of
// minor units kept in base amounts.
func NewCurrencyService(rateRepo portsrepo.CurrencyRateRepositoryFacade, baseCurrency string, scale int32) portssvc.CurrencyRateSvcFacade {
	return &currencyService{
		rateRepo:     rateRepo,
		baseCurrency: strings.ToUpper(baseCurrency),
		scale:        scale,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.CurrencyRateSvcFacade = (*currencyService)(nil)

func (s *currencyService) BaseCurrency() string {
	return s.baseCurrency
}

// ToBase converts amount into the base currency. Rounding is half away from zero.
func (s *currencyService) ToBase(ctx context.Context, amount decimal.Decimal, currency string, asOf time.Time) (decimal.Decimal, error) {
	if currency == s.baseCurrency {
		return amount, nil
	}

	rate, err := s.rateRepo.FindLatestRate(ctx, currency, domain.RateDay(asOf))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: %s on or before %s", apperrors.ErrRateUnavailable, currency, domain.RateDay(asOf).Format(time.DateOnly))
		}
		return decimal.Zero, fmt.Errorf("failed to find rate for %s: %w", currency, err)
	}

	return amount.Mul(rate.Rate).Round(s.scale), nil
}

// RecordRate stores the rate for (currency, UTC day), replacing an earlier value for
// the same day. Ledger entries already posted keep their frozen base amounts.
func (s *currencyService) RecordRate(ctx context.Context, currency string, rateDate time.Time, rate decimal.Decimal) (*domain.CurrencyRate, error) {
	logger := logging.FromContext(ctx)

	if err := s.validateCurrency(currency); err != nil {
		return nil, err
	}
	if currency == s.baseCurrency {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s is the base currency and has no rate", currency))
	}
	if !rate.IsPositive() {
		return nil, apperrors.NewValidationError("rate must be positive")
	}
	if rateDate.IsZero() {
		return nil, apperrors.NewValidationError("rate date is required")
	}

	now := s.now()
	saved, err := s.rateRepo.UpsertRate(ctx, domain.CurrencyRate{
		RateID:   uuid.NewString(),
		Currency: currency,
		RateDate: domain.RateDay(rateDate),
		Rate:     rate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	})
	if err != nil {
		logger.Error().Err(err).Str("currency", currency).Msg("Failed to record currency rate")
		return nil, fmt.Errorf("failed to record rate: %w", err)
	}
	logger.Info().Str("currency", currency).Time("rate_date", saved.RateDate).Str("rate", saved.Rate.String()).Msg("Currency rate recorded")
	return saved, nil
}

// RateAsOf returns the rate ToBase would use for currency at asOf.
func (s *currencyService) RateAsOf(ctx context.Context, currency string, asOf time.Time) (*domain.CurrencyRate, error) {
	if err := s.validateCurrency(currency); err != nil {
		return nil, err
	}
	rate, err := s.rateRepo.FindLatestRate(ctx, currency, domain.RateDay(asOf))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrRateUnavailable, currency)
		}
		return nil, err
	}
	return rate, nil
}

func (s *currencyService) validateCurrency(currency string) error {
	if len(currency) != 3 || strings.ToUpper(currency) != currency {
		return apperrors.NewValidationError(fmt.Sprintf("currency %q must be three uppercase letters", currency))
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return apperrors.NewValidationError(fmt.Sprintf("currency %q must be three uppercase letters", currency))
		}
	}
	return nil
}
