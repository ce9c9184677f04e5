package handlers

import (
	"errors"
	"net/http"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/middleware"
	"github.com/SscSPs/ledger_posting/internal/platform/lock"
	"github.com/gin-gonic/gin"
)

// statusForError maps service errors to HTTP status codes. ErrRateUnavailable
// wraps ErrValidation, so it is matched first.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrRateUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, lock.ErrBusy):
		return http.StatusLocked
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 600 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes the JSON error body. Internal details are
// not exposed for 5xx responses.
func respondError(c *gin.Context, err error, msg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg(msg)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	logger.Warn().Err(err).Int("status", status).Msg(msg)
	c.JSON(status, gin.H{"error": err.Error()})
}

func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn().Err(err).Msg("Failed to bind request")
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}
