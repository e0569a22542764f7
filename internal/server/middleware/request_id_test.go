// file: internal/server/middleware/request_id_test.go
// version: 1.0.0
// guid: 3b7e0a9d-5c24-4f81-b6e3-9d2a1c8f7e05

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	ulid "github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestIDRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), RequestLogger())
	router.GET("/ping", func(c *gin.Context) {
		*seen = GetRequestID(c)
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	var seen string
	resp := httptest.NewRecorder()
	newRequestIDRouter(&seen).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/ping", nil))

	header := resp.Header().Get(RequestIDHeader)
	require.NotEmpty(t, header)
	assert.Equal(t, header, seen)
	_, err := ulid.Parse(header)
	assert.NoError(t, err)
}

func TestRequestID_Propagated(t *testing.T) {
	t.Parallel()

	var seen string
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "client-id-1")
	resp := httptest.NewRecorder()
	newRequestIDRouter(&seen).ServeHTTP(resp, req)

	assert.Equal(t, "client-id-1", seen)
	assert.Equal(t, "client-id-1", resp.Header().Get(RequestIDHeader))
}

func TestGetRequestID_NilContext(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", GetRequestID(nil))
}
