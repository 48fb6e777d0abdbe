package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"bloodgroup/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// RequestID propagates X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// ErrorLogger logs every request, recovers from panics and turns them into a
// JSON 500 response.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				logRequest(c, start, slog.LevelError, "panic",
					"error", fmt.Sprintf("%v", recovered),
					"stack", string(debug.Stack()))
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error")
				return
			}

			switch {
			case len(c.Errors) > 0:
				logRequest(c, start, slog.LevelError, "request_error", "error", c.Errors.String())
			case c.Writer.Status() >= http.StatusInternalServerError:
				logRequest(c, start, slog.LevelError, "http_error")
			default:
				logRequest(c, start, slog.LevelInfo, "request")
			}
		}()

		c.Next()
	}
}

func logRequest(c *gin.Context, start time.Time, level slog.Level, msg string, extra ...any) {
	attrs := []any{
		"status", c.Writer.Status(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"client_ip", c.ClientIP(),
		"role", c.GetString("role"),
		"user_id", c.GetInt64("user_id"),
		"request_id", c.GetString(requestIDKey),
		"latency", time.Since(start),
	}
	slog.Log(c.Request.Context(), level, msg, append(attrs, extra...)...)
}
