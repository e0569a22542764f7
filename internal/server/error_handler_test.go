// file: internal/server/error_handler_test.go
// version: 2.0.0
// guid: 6e7f8a9b-0c1d-2e3f-4a5b-6c7d8e9f0a1b

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRespondWithHelpers(t *testing.T) {
	tests := []struct {
		name   string
		call   func(c *gin.Context)
		status int
		code   string
	}{
		{"bad request", func(c *gin.Context) { RespondWithBadRequest(c, "bad") }, http.StatusBadRequest, "BAD_REQUEST"},
		{"validation", func(c *gin.Context) { RespondWithValidationError(c, "name", "too short") }, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"not found", func(c *gin.Context) { RespondWithNotFound(c, "contest", "7") }, http.StatusNotFound, "NOT_FOUND"},
		{"internal", func(c *gin.Context) { RespondWithInternalError(c, "boom") }, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"conflict", func(c *gin.Context) { RespondWithConflict(c, "dup") }, http.StatusConflict, "CONFLICT"},
		{"unauthorized", func(c *gin.Context) { RespondWithUnauthorized(c, "who") }, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", func(c *gin.Context) { RespondWithForbidden(c, "no") }, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext("/")
			tt.call(c)
			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.status, resp.Status)
		})
	}
}

func TestRespondWithNotFoundMessage(t *testing.T) {
	c, w := newTestContext("/")
	RespondWithNotFound(c, "contest", "123")
	assert.Equal(t, "contest not found: 123", decodeError(t, w).Error)
}

func TestRespondWithServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", ValidationError{Field: "name", Message: "name is required", Code: "NAME_REQUIRED"}, http.StatusUnprocessableEntity, "NAME_REQUIRED"},
		{"wrapped validation", fmt.Errorf("%w: empty list", ErrValidation), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"length mismatch", database.ErrLengthMismatch, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"not found", fmt.Errorf("contest 3: %w", database.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate", database.ErrDuplicateEmail, http.StatusConflict, "CONFLICT"},
		{"token", ErrInvalidToken, http.StatusBadRequest, "INVALID_TOKEN"},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unconfirmed", ErrEmailNotConfirmed, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"inactive", ErrInactiveUser, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"other", errors.New("disk full"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext("/")
			RespondWithServiceError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestHandleBindError(t *testing.T) {
	c, _ := newTestContext("/")
	assert.False(t, HandleBindError(c, nil))

	c, w := newTestContext("/")
	assert.True(t, HandleBindError(c, errors.New("unexpected EOF")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext("/")
	assert.True(t, HandleBindError(c, errors.New("Key: 'x' Error:Field validation for 'x' failed on the 'required' tag")))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestParseQueryInt(t *testing.T) {
	c, _ := newTestContext("/?limit=5&bad=x")
	assert.Equal(t, 5, ParseQueryInt(c, "limit", 10))
	assert.Equal(t, 10, ParseQueryInt(c, "bad", 10))
	assert.Equal(t, 10, ParseQueryInt(c, "missing", 10))
}

func TestParseIDParam(t *testing.T) {
	c, _ := newTestContext("/")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := ParseIDParam(c, "id")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	c, w := newTestContext("/")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	_, ok = ParseIDParam(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
