// file: internal/server/validators.go
// version: 2.0.0
// guid: 9b0c1d2e-3f4a-5b6c-7d8e-9f0a1b2c3d4e

package server

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrValidation matches every ValidationError through errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError represents a validation error with code
type ValidationError struct {
	Field   string
	Message string
	Code    string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}

const (
	minPasswordLength = 6
	minNameQuery      = 3
	maxTextLength     = 1024
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateRequired rejects blank values and values longer than maxTextLength.
func ValidateRequired(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ValidationError{
			Field:   field,
			Message: field + " is required",
			Code:    strings.ToUpper(field) + "_REQUIRED",
		}
	}
	if utf8.RuneCountInString(value) > maxTextLength {
		return ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must not exceed %d characters", field, maxTextLength),
			Code:    strings.ToUpper(field) + "_TOO_LONG",
		}
	}
	return nil
}

// ValidateEmail validates that a string is a valid email address
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{
			Field:   "email",
			Message: "email is required",
			Code:    "EMAIL_REQUIRED",
		}
	}

	// Simple email regex (not RFC-compliant but good for basic validation)
	if !emailRegex.MatchString(email) {
		return ValidationError{
			Field:   "email",
			Message: "email format is invalid",
			Code:    "EMAIL_INVALID",
		}
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength),
			Code:    "PASSWORD_TOO_SHORT",
		}
	}
	return nil
}

// ValidateNameQuery checks the candidate name used by lookups.
func ValidateNameQuery(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < minNameQuery {
		return ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("name must be at least %d characters", minNameQuery),
			Code:    "NAME_TOO_SHORT",
		}
	}
	return nil
}

// ValidateID validates that a numeric identifier is positive.
func ValidateID(field string, id int64) error {
	if id <= 0 {
		return ValidationError{
			Field:   field,
			Message: field + " must be a positive integer",
			Code:    strings.ToUpper(field) + "_INVALID",
		}
	}
	return nil
}
