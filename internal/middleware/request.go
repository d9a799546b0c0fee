package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/communityhub/internal/db/zapadapter"
	"github.com/rs/xid"
	"go.uber.org/zap"
)

const (
	HeaderRequestID     = "X-Request-ID"
	ContextKeyRequestID = "request_id"
)

// GetRequestID is empty when RequestLogger did not run.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// RequestLogger tags every request with an id, threads it into the request
// context for the pgx tracer, and writes one access log line when the
// handler returns.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = xid.New().String()
		}
		c.Header(HeaderRequestID, id)
		c.Set(ContextKeyRequestID, id)
		c.Request = c.Request.WithContext(zapadapter.NewContextWithID(c.Request.Context(), id))

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("uri", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= 500 {
			logger.Error("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}

// Timeout bounds the request context. Repository calls take the request
// context, so a stuck query is cancelled once d elapses.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
