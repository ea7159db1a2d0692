package middleware

import (
	"log/slog"
	"time"

	"rayob-cms/helper"
	"rayob-cms/models"

	"github.com/gin-gonic/gin"
)

func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		log.Log(c.Request.Context(), level, "request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", c.GetString(helper.RequestIDKey),
			"ip", c.ClientIP(),
		)
	}
}

// Recovery turns panics into an internal error envelope.
func Recovery(h *helper.HTTPHelper, log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(helper.RequestIDKey),
		)
		h.SendError(c, &models.Error{Kind: models.KindInternal, Message: "internal server error"})
	})
}
