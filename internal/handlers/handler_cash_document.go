package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/dto"
	"github.com/gin-gonic/gin"
)

// cashDocumentHandler serves internal transfers and payment executions.
type cashDocumentHandler struct {
	cash portssvc.CashDocumentSvcFacade
}

func registerCashDocumentRoutes(rg *gin.RouterGroup, cash portssvc.CashDocumentSvcFacade) {
	h := &cashDocumentHandler{cash: cash}

	rg.POST("/transfers", h.postTransfer)
	rg.POST("/transfers/:transferID/void", h.voidTransfer)
	rg.POST("/payments", h.postPayment)
}

func (h *cashDocumentHandler) postTransfer(c *gin.Context) {
	var req dto.InternalTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	run, err := h.cash.PostInternalTransfer(c.Request.Context(), req.ToTransferRequest())
	if err != nil {
		respondError(c, err, "Failed to post internal transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToPostingRunResponse(run))
}

func (h *cashDocumentHandler) voidTransfer(c *gin.Context) {
	var req dto.VoidTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	run, err := h.cash.VoidInternalTransfer(c.Request.Context(), c.Param("transferID"), req.Reason)
	if err != nil {
		respondError(c, err, "Failed to void internal transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToPostingRunResponse(run))
}

func (h *cashDocumentHandler) postPayment(c *gin.Context) {
	var req dto.PaymentExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	run, err := h.cash.PostPaymentExecution(c.Request.Context(), req.ToPaymentRequest())
	if err != nil {
		respondError(c, err, "Failed to post payment execution")
		return
	}
	c.JSON(http.StatusOK, dto.ToPostingRunResponse(run))
}
