package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/middleware"
	"github.com/SscSPs/ledger_posting/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// gatherer backs /metrics; a nil gatherer leaves the endpoint out.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	gatherer prometheus.Gatherer,
) error {
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) error {
	v1 := r.Group("/api/v1")
	if cfg.RateLimit != "" {
		lim, err := middleware.NewLimiter(cfg.RateLimit)
		if err != nil {
			return err
		}
		v1.Use(middleware.RateLimit(lim))
	}

	registerPostingRoutes(v1, services.Posting, services.Ledger)
	registerLedgerRoutes(v1, services.Ledger)
	registerCurrencyRateRoutes(v1, services.CurrencyRates)
	registerRecurringJournalRoutes(v1, services.Recurring)
	registerCashDocumentRoutes(v1, services.CashDocuments)
	registerAuditRoutes(v1, services.Auditor)
	return nil
}
