package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roomcare/housekeeping-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per request with the caller's device
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		device := utils.ParseUserAgent(utils.GetUserAgent(c))
		fields := logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"latency_ms":  time.Since(start).Milliseconds(),
			"ip":          utils.GetRealIP(c),
			"device_type": device.DeviceType,
			"platform":    device.Platform,
		}
		if device.IsBot {
			fields["bot"] = true
		}
		if userCtx, ok := GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
			fields["role"] = userCtx.Role
		}
		if fields["path"] == "" {
			fields["path"] = c.Request.URL.Path
		}

		entry := logger.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}
