package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCurrencyRateRepository
	service  portssvc.CurrencyRateSvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCurrencyRateRepository)
	suite.service = services.NewCurrencyService(suite.mockRepo, "RUB", 2)
}

func (suite *CurrencyServiceTestSuite) TestToBase_BaseCurrencyIsUnchanged() {
	amount := decimal.RequireFromString("1000.005")

	got, err := suite.service.ToBase(context.Background(), amount, "RUB", time.Now())

	suite.Require().NoError(err)
	suite.True(amount.Equal(got))
	suite.mockRepo.AssertNotCalled(suite.T(), "FindLatestRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestToBase_UsesLatestRateOnOrBeforeDay() {
	asOf := time.Date(2026, 4, 10, 18, 30, 0, 0, time.UTC)
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	rate := &domain.CurrencyRate{Currency: "USD", RateDate: day.AddDate(0, 0, -2), Rate: decimal.RequireFromString("92.3456")}

	suite.mockRepo.On("FindLatestRate", mock.Anything, "USD", day).Return(rate, nil).Once()

	got, err := suite.service.ToBase(context.Background(), decimal.RequireFromString("10.5"), "USD", asOf)

	suite.Require().NoError(err)
	suite.Equal("969.63", got.StringFixed(2))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestToBase_NoRate() {
	suite.mockRepo.On("FindLatestRate", mock.Anything, "EUR", mock.Anything).
		Return(nil, apperrors.NewNotFoundError("rate")).Once()

	_, err := suite.service.ToBase(context.Background(), decimal.NewFromInt(1), "EUR", time.Now())

	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CurrencyServiceTestSuite) TestToBase_RepositoryFailure() {
	suite.mockRepo.On("FindLatestRate", mock.Anything, "EUR", mock.Anything).Return(nil, assert.AnError).Once()

	_, err := suite.service.ToBase(context.Background(), decimal.NewFromInt(1), "EUR", time.Now())

	suite.ErrorIs(err, assert.AnError)
	suite.NotErrorIs(err, apperrors.ErrRateUnavailable)
}

func (suite *CurrencyServiceTestSuite) TestRecordRate_Success() {
	rateDate := time.Date(2026, 4, 10, 15, 0, 0, 0, time.UTC)
	suite.mockRepo.On("UpsertRate", mock.Anything, mock.MatchedBy(func(r domain.CurrencyRate) bool {
		return r.Currency == "USD" && r.RateDate.Equal(time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)) && r.Rate.Equal(decimal.NewFromInt(90))
	})).Return(&domain.CurrencyRate{Currency: "USD", Rate: decimal.NewFromInt(90)}, nil).Once()

	saved, err := suite.service.RecordRate(context.Background(), "USD", rateDate, decimal.NewFromInt(90))

	suite.Require().NoError(err)
	suite.Equal("USD", saved.Currency)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestRecordRate_Validation() {
	cases := map[string]struct {
		currency string
		rate     decimal.Decimal
	}{
		"base currency": {"RUB", decimal.NewFromInt(1)},
		"lowercase":     {"usd", decimal.NewFromInt(1)},
		"digits":        {"US1", decimal.NewFromInt(1)},
		"zero rate":     {"USD", decimal.Zero},
		"negative rate": {"USD", decimal.NewFromInt(-3)},
	}
	for name, tc := range cases {
		suite.Run(name, func() {
			_, err := suite.service.RecordRate(context.Background(), tc.currency, time.Now(), tc.rate)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertRate", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestRateAsOf_NotFound() {
	suite.mockRepo.On("FindLatestRate", mock.Anything, "CNY", mock.Anything).
		Return(nil, apperrors.NewNotFoundError("rate")).Once()

	_, err := suite.service.RateAsOf(context.Background(), "CNY", time.Now())

	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
