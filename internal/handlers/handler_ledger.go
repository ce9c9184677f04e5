package handlers

import (
	"net/http"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/dto"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledger portssvc.LedgerReadSvcFacade
	now    func() time.Time
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerReadSvcFacade) {
	h := &ledgerHandler{ledger: ledger, now: time.Now}

	l := rg.Group("/ledger")
	{
		l.GET("/entries", h.listEntries)
		l.GET("/runs", h.listRuns)
		l.GET("/balance/:account", h.accountBalance)
	}
}

func (h *ledgerHandler) listEntries(c *gin.Context) {
	var q dto.ListEntriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	filter := portsrepo.EntryFilter{From: q.From, IncludeVoided: q.IncludeVoided}
	if q.To != nil {
		// the query date is inclusive
		end := q.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.To = &end
	}
	if q.DocType != "" {
		dt, err := parseDocType(q.DocType)
		if err != nil {
			respondError(c, err, "Failed to list ledger entries")
			return
		}
		filter.DocType = &dt
	}
	if q.DocID != "" {
		filter.DocID = &q.DocID
	}

	entries, next, err := h.ledger.ListEntries(c.Request.Context(), filter, q.Limit, q.NextToken)
	if err != nil {
		respondError(c, err, "Failed to list ledger entries")
		return
	}
	c.JSON(http.StatusOK, dto.ListEntriesResponse{Entries: dto.ToLedgerEntryResponses(entries), NextToken: next})
}

func (h *ledgerHandler) listRuns(c *gin.Context) {
	var q dto.ListRunsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	runs, next, err := h.ledger.ListRunsByStatus(c.Request.Context(), domain.PostingRunStatus(q.Status), q.Limit, q.NextToken)
	if err != nil {
		respondError(c, err, "Failed to list posting runs")
		return
	}
	c.JSON(http.StatusOK, dto.ListRunsResponse{Runs: dto.ToPostingRunResponses(runs), NextToken: next})
}

func (h *ledgerHandler) accountBalance(c *gin.Context) {
	var q dto.BalanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	asOf := h.now()
	if q.AsOf != nil {
		asOf = q.AsOf.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	balance, err := h.ledger.AccountBalance(c.Request.Context(), c.Param("account"), asOf, q.IncludeVoided)
	if err != nil {
		respondError(c, err, "Failed to compute account balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}
