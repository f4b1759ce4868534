package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/kickoff-coach-api/pkg/middleware/requestid"
)

// Audit writes one structured audit line for every successful administrative
// request. Failed requests are not audited.
func Audit(logger *zap.Logger, action string) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status >= 400 {
			return
		}

		fields := []zap.Field{
			zap.String("action", action),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.GetHeader("User-Agent")),
		}
		if claims := Claims(c); claims != nil {
			fields = append(fields, zap.Int64("actor_id", claims.UserID))
		}
		if id := requestid.Value(c); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		logger.Info("audit", fields...)
	}
}
