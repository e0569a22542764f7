// file: internal/server/middleware/request_id.go
// version: 1.0.0
// guid: c8e1f7a3-4d29-4b6e-8a15-0f3d9b7c2e61

package middleware

import (
	"time"

	"github.com/classificacaofinal/classificacao/internal/logging"
	"github.com/gin-gonic/gin"
	ulid "github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader     = "X-Request-ID"
	contextRequestIDKey = "request_id"
)

// RequestID propagates a client supplied X-Request-ID or assigns a ULID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = ulid.Make().String()
		}
		c.Set(contextRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(contextRequestIDKey)
}

// RequestLogger logs one line per request through logrus.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		entry := logging.Log.WithFields(logrus.Fields{
			"request_id": GetRequestID(c),
			"method":     c.Request.Method,
			"path":       path,
			"status":     status,
			"duration":   time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})
		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}
