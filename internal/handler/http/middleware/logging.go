package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one structured line per request.
func RequestLogger(entry *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}
		if id, ok := AccountID(c); ok {
			fields["account_id"] = id
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.String()
		}
		l := entry.WithFields(fields)
		switch {
		case status >= 500:
			l.Error("request failed")
		case status >= 400:
			l.Warn("request rejected")
		default:
			l.Info("request served")
		}
	}
}

// Recovery turns panics into 500 responses and logs them.
func Recovery(entry *logrus.Entry) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		entry.WithField("path", c.Request.URL.Path).Errorf("panic recovered: %v", err)
		abort(c, 500, "internal server error")
	})
}
