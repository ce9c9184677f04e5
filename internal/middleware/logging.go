package middleware

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting/internal/platform/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request id. An incoming value is kept so callers can
// correlate their logs with ours.
const RequestIDHeader = "X-Request-ID"

// StructuredLoggingMiddleware creates a Gin middleware handler that injects
// a request-scoped logger into the request context.
func StructuredLoggingMiddleware(baseLogger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		requestLogger := baseLogger.With().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()

		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), requestLogger))

		c.Next()

		event := requestLogger.Info()
		if c.Writer.Status() >= 500 {
			event = requestLogger.Error()
		}
		event.
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request completed")
	}
}

// GetLoggerFromCtx returns the request-scoped logger.
func GetLoggerFromCtx(ctx context.Context) *zerolog.Logger {
	return logging.FromContext(ctx)
}
