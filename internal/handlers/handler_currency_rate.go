package handlers

import (
	"net/http"
	"strings"
	"time"

	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/dto"
	"github.com/SscSPs/ledger_posting/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyRateHandler maintains daily rates into the base currency.
type currencyRateHandler struct {
	rates portssvc.CurrencyRateSvcFacade
	now   func() time.Time
}

func registerCurrencyRateRoutes(rg *gin.RouterGroup, rates portssvc.CurrencyRateSvcFacade) {
	h := &currencyRateHandler{rates: rates, now: time.Now}

	cr := rg.Group("/currency-rates")
	{
		cr.POST("", h.recordRate)
		cr.GET("/:currency", h.rateAsOf)
	}
}

func (h *currencyRateHandler) recordRate(c *gin.Context) {
	var req dto.RecordRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info().Str("currency", req.Currency).Time("rate_date", req.RateDate).Msg("Received request to record currency rate")

	rate, err := h.rates.RecordRate(c.Request.Context(), req.Currency, req.RateDate, req.Rate)
	if err != nil {
		respondError(c, err, "Failed to record currency rate")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCurrencyRateResponse(rate, h.rates.BaseCurrency()))
}

func (h *currencyRateHandler) rateAsOf(c *gin.Context) {
	var q dto.RateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	asOf := h.now()
	if q.AsOf != nil {
		asOf = *q.AsOf
	}

	rate, err := h.rates.RateAsOf(c.Request.Context(), strings.ToUpper(c.Param("currency")), asOf)
	if err != nil {
		respondError(c, err, "Failed to read currency rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyRateResponse(rate, h.rates.BaseCurrency()))
}
