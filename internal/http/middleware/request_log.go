package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bazaarlane/admin-backend/internal/platform/ctxutil"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

func RequestLog(log *logger.Logger) gin.HandlerFunc {
	reqLog := log.With("middleware", "RequestLog")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kvs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			kvs = append(kvs, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
			kvs = append(kvs, "user_id", rd.UserID.String())
		}
		if len(c.Errors) > 0 {
			kvs = append(kvs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			reqLog.Error("request", kvs...)
		case status >= 400:
			reqLog.Warn("request", kvs...)
		default:
			reqLog.Info("request", kvs...)
		}
	}
}
