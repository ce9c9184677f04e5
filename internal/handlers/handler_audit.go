package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/dto"
	"github.com/SscSPs/ledger_posting/internal/middleware"
	"github.com/gin-gonic/gin"
)

type auditHandler struct {
	auditor portssvc.IntegrityAuditor
}

func registerAuditRoutes(rg *gin.RouterGroup, auditor portssvc.IntegrityAuditor) {
	h := &auditHandler{auditor: auditor}
	rg.GET("/audit", h.checkAll)
}

// checkAll reports violations with 200; the report itself is the result.
func (h *auditHandler) checkAll(c *gin.Context) {
	violations, err := h.auditor.CheckAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to run integrity audit")
		return
	}
	if len(violations) > 0 {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn().Int("violations", len(violations)).Msg("Integrity audit found violations")
	}
	c.JSON(http.StatusOK, dto.ToAuditReportResponse(violations))
}
