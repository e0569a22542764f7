// file: internal/server/middleware/request_size.go
// version: 1.1.0
// guid: f2129ae7-cf11-4888-bd4f-ab4b578f8f18

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func methodHasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// Bulk result lists and name batches may be far larger than regular payloads.
func selectBodyLimit(path string, jsonLimitBytes, bulkLimitBytes int64) int64 {
	if path == "/api/contest-results" || strings.HasPrefix(path, "/api/results-by-names") {
		return bulkLimitBytes
	}
	return jsonLimitBytes
}

// MaxRequestBodySize enforces request body limits by route class.
func MaxRequestBodySize(jsonLimitBytes, bulkLimitBytes int64) gin.HandlerFunc {
	if jsonLimitBytes < 1 {
		jsonLimitBytes = 1 << 20
	}
	if bulkLimitBytes < jsonLimitBytes {
		bulkLimitBytes = jsonLimitBytes
	}

	return func(c *gin.Context) {
		if !methodHasBody(c.Request.Method) {
			c.Next()
			return
		}

		limit := selectBodyLimit(c.Request.URL.Path, jsonLimitBytes, bulkLimitBytes)
		if c.Request.ContentLength > limit && c.Request.ContentLength > 0 {
			abortWithError(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
