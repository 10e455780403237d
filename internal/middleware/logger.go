package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs every request with its outcome and recovers from
// handler panics with a JSON 500 instead of a dropped connection.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error("handler panic",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", recovered),
					zap.ByteString("stack", debug.Stack()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "Internal server error",
					},
				})
				return
			}

			fields := []zap.Field{
				zap.Int("status", c.Writer.Status()),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.Duration("latency", time.Since(start)),
			}
			if rid := requestID(c); rid != "" {
				fields = append(fields, zap.String("request_id", rid))
			}
			for _, err := range c.Errors {
				fields = append(fields, zap.String("error", err.Error()))
				if err.Meta != nil {
					fields = append(fields, zap.String("error_meta", fmt.Sprintf("%+v", err.Meta)))
				}
			}

			switch {
			case c.Writer.Status() >= http.StatusInternalServerError:
				log.Error("request failed", fields...)
			case len(c.Errors) > 0:
				log.Warn("request completed with errors", fields...)
			default:
				log.Info("request", fields...)
			}
		}()

		c.Next()
	}
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
