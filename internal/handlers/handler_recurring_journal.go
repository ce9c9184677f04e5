package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/dto"
	"github.com/SscSPs/ledger_posting/internal/middleware"
	"github.com/gin-gonic/gin"
)

type recurringJournalHandler struct {
	recurring portssvc.RecurringJournalSvcFacade
}

func registerRecurringJournalRoutes(rg *gin.RouterGroup, recurring portssvc.RecurringJournalSvcFacade) {
	h := &recurringJournalHandler{recurring: recurring}

	rj := rg.Group("/recurring-journals")
	{
		rj.POST("", h.createJournal)
		rj.POST("/batch", h.runBatch)
		rj.POST("/:journalID/archive", h.archiveJournal)
		rj.GET("/:journalID/runs", h.listRuns)
		rj.POST("/:journalID/runs/:period/retry", h.retryPeriod)
	}
}

func (h *recurringJournalHandler) createJournal(c *gin.Context) {
	var req dto.CreateRecurringJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	journal, err := h.recurring.CreateJournal(c.Request.Context(), req.ToCreateJournalRequest())
	if err != nil {
		respondError(c, err, "Failed to create recurring journal")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRecurringJournalResponse(journal))
}

func (h *recurringJournalHandler) archiveJournal(c *gin.Context) {
	if err := h.recurring.ArchiveJournal(c.Request.Context(), c.Param("journalID")); err != nil {
		respondError(c, err, "Failed to archive recurring journal")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *recurringJournalHandler) listRuns(c *gin.Context) {
	var q dto.ListRecurringRunsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	journalID := c.Param("journalID")
	runs, err := h.recurring.ListRuns(c.Request.Context(), journalID, q.From, q.To)
	if err != nil {
		respondError(c, err, "Failed to list recurring journal runs")
		return
	}
	c.JSON(http.StatusOK, dto.RecurringRunsResponse{JournalID: journalID, Runs: runs})
}

// runBatch answers 200 even when some items ended in ERROR; the body carries per-item outcomes.
func (h *recurringJournalHandler) runBatch(c *gin.Context) {
	var req dto.RunBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.recurring.RunBatch(c.Request.Context(), req.ToBatchRequest())
	if err != nil {
		respondError(c, err, "Failed to run recurring journal batch")
		return
	}
	if itemsErr := result.Err(); itemsErr != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn().Err(itemsErr).Msg("Recurring journal batch finished with errors")
	}
	c.JSON(http.StatusOK, result)
}

func (h *recurringJournalHandler) retryPeriod(c *gin.Context) {
	item, err := h.recurring.RetryPeriod(c.Request.Context(), c.Param("journalID"), c.Param("period"))
	if err != nil {
		respondError(c, err, "Failed to retry recurring journal period")
		return
	}
	c.JSON(http.StatusOK, item)
}
