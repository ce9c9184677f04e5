package handlers

import (
	"net/http"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/dto"
	"github.com/SscSPs/ledger_posting/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler exposes the posting engine.
type postingHandler struct {
	engine portssvc.PostingEngine
	ledger portssvc.LedgerReadSvcFacade
}

func registerPostingRoutes(rg *gin.RouterGroup, engine portssvc.PostingEngine, ledger portssvc.LedgerReadSvcFacade) {
	h := &postingHandler{engine: engine, ledger: ledger}

	postings := rg.Group("/postings")
	{
		postings.POST("", h.postDocument)
		postings.POST("/void", h.voidDocument)
		postings.GET("/status", h.documentStatus)
	}
}

func parseDocType(raw string) (domain.DocType, error) {
	dt, err := domain.ParseDocType(raw)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}
	return dt, nil
}

// postDocument posts a document. Repeating the call returns the same run.
func (h *postingHandler) postDocument(c *gin.Context) {
	var req dto.PostDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	docType, err := parseDocType(req.DocType)
	if err != nil {
		respondError(c, err, "Failed to post document")
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info().Str("doc_type", string(docType)).Str("doc_id", req.DocID).Int("lines", len(req.Lines)).Msg("Received request to post document")

	run, err := h.engine.PostDocument(c.Request.Context(), req.ToPostRequest(docType))
	if err != nil {
		respondError(c, err, "Failed to post document")
		return
	}
	c.JSON(http.StatusOK, dto.ToPostingRunResponse(run))
}

func (h *postingHandler) voidDocument(c *gin.Context) {
	var req dto.VoidDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	docType, err := parseDocType(req.DocType)
	if err != nil {
		respondError(c, err, "Failed to void document")
		return
	}

	run, err := h.engine.VoidDocument(c.Request.Context(), docType, req.DocID, req.Reason)
	if err != nil {
		respondError(c, err, "Failed to void document")
		return
	}
	c.JSON(http.StatusOK, dto.ToPostingRunResponse(run))
}

func (h *postingHandler) documentStatus(c *gin.Context) {
	var q dto.DocumentStatusQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	docType, err := parseDocType(q.DocType)
	if err != nil {
		respondError(c, err, "Failed to read document status")
		return
	}

	ctx := c.Request.Context()
	posted, err := h.engine.IsPosted(ctx, docType, q.DocID)
	if err != nil {
		respondError(c, err, "Failed to read document status")
		return
	}
	runs, err := h.ledger.FindRunsByDocument(ctx, domain.DocumentRef{DocType: docType, DocID: q.DocID})
	if err != nil {
		respondError(c, err, "Failed to read document status")
		return
	}
	c.JSON(http.StatusOK, dto.DocumentStatusResponse{
		DocType: string(docType),
		DocID:   q.DocID,
		Posted:  posted,
		Runs:    dto.ToPostingRunResponses(runs),
	})
}
