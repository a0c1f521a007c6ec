package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// sensitiveSegments names path segments whose following segment is a
// secret.
var sensitiveSegments = map[string]bool{
	"confirm_reset": true,
}

// RequestLogger logs method, path, status, duration and response size of
// every request except those in skipPaths. Secrets in the path are masked.
func RequestLogger(logger *slog.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}

		attrs := []any{
			"method", c.Request.Method,
			"path", sanitizePath(c.Request.URL.Path),
			"remote_addr", c.ClientIP(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes_written", c.Writer.Size(),
		}
		if p := PrincipalFrom(c); !p.IsAnonymous() {
			attrs = append(attrs, "user_id", p.UserID)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		logger.Log(c.Request.Context(), level, "http request", attrs...)
	}
}

func sanitizePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if sensitiveSegments[part] && i+1 < len(parts) && parts[i+1] != "" {
			parts[i+1] = "***"
		}
	}
	return strings.Join(parts, "/")
}
