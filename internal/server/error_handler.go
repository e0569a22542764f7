// file: internal/server/error_handler.go
// version: 2.0.0
// guid: 5d6e7f8a-9b0c-1d2e-3f4a-5b6c7d8e9f0a

package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/logging"
	"github.com/classificacaofinal/classificacao/internal/server/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse provides a consistent error response format
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Status int    `json:"status"`
}

// RespondWithError sends a standardized error response and logs the error
func RespondWithError(c *gin.Context, statusCode int, message string, code string) {
	logErrorWithContext(c, statusCode, message)

	c.JSON(statusCode, ErrorResponse{
		Error:  message,
		Code:   code,
		Status: statusCode,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error response
func RespondWithBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, message, "BAD_REQUEST")
}

// RespondWithValidationError sends a 422 error for validation failures
func RespondWithValidationError(c *gin.Context, field string, reason string) {
	message := "validation error: " + field
	if reason != "" {
		message = message + " (" + reason + ")"
	}
	RespondWithError(c, http.StatusUnprocessableEntity, message, "VALIDATION_ERROR")
}

// RespondWithNotFound sends a 404 Not Found error response
func RespondWithNotFound(c *gin.Context, resourceType string, id string) {
	message := resourceType + " not found"
	if id != "" {
		message = message + ": " + id
	}
	RespondWithError(c, http.StatusNotFound, message, "NOT_FOUND")
}

// RespondWithInternalError sends a 500 Internal Server Error response
func RespondWithInternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, message, "INTERNAL_ERROR")
}

// RespondWithConflict sends a 409 Conflict error response
func RespondWithConflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, message, "CONFLICT")
}

// RespondWithUnauthorized sends a 401 Unauthorized error response
func RespondWithUnauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, message, "UNAUTHORIZED")
}

// RespondWithForbidden sends a 403 Forbidden error response
func RespondWithForbidden(c *gin.Context, message string) {
	RespondWithError(c, http.StatusForbidden, message, "FORBIDDEN")
}

// RespondWithServiceError maps a service error to its HTTP status.
func RespondWithServiceError(c *gin.Context, err error) {
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		RespondWithError(c, http.StatusUnprocessableEntity, ve.Message, ve.Code)
	case errors.Is(err, ErrValidation), errors.Is(err, database.ErrLengthMismatch):
		RespondWithError(c, http.StatusUnprocessableEntity, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, database.ErrNotFound):
		RespondWithError(c, http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, database.ErrDuplicateEmail):
		RespondWithConflict(c, err.Error())
	case errors.Is(err, ErrInvalidToken):
		RespondWithError(c, http.StatusBadRequest, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrEmailNotConfirmed), errors.Is(err, ErrInactiveUser):
		RespondWithUnauthorized(c, err.Error())
	default:
		RespondWithInternalError(c, err.Error())
	}
}

// RespondWithNoContent sends a 204 No Content response
func RespondWithNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// logErrorWithContext logs an error with request context for debugging
func logErrorWithContext(c *gin.Context, statusCode int, message string) {
	entry := logging.Log.WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(c),
		"status":     statusCode,
	})
	if c.Request != nil {
		entry = entry.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"client_ip": c.ClientIP(),
		})
	}
	if statusCode >= 500 {
		entry.Error(message)
		return
	}
	entry.Warn(message)
}

// HandleBindError handles JSON binding errors with a consistent response
func HandleBindError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	errMsg := err.Error()
	if strings.Contains(errMsg, "required") || strings.Contains(errMsg, "binding") {
		RespondWithValidationError(c, "request body", errMsg)
	} else {
		RespondWithBadRequest(c, "invalid request: "+errMsg)
	}
	return true
}

// ParseQueryInt parses an integer query parameter with a default value
func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.DefaultQuery(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// ParseIDParam reads a positive int64 path parameter, responding 422 when invalid.
func ParseIDParam(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		RespondWithValidationError(c, key, "must be a positive integer")
		return 0, false
	}
	return id, true
}
