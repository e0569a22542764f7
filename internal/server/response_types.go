// file: internal/server/response_types.go
// version: 2.0.0
// guid: 7f8a9b0c-1d2e-3f4a-5b6c-7d8e9f0a1b2c

package server

import (
	"time"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/matcher"
)

// TokenTypeBearer is the token_type reported with every access token.
const TokenTypeBearer = "bearer"

// MessageResponse provides a consistent format for status messages
type MessageResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// TokenResponse is returned after a successful sign-in.
type TokenResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        *database.User `json:"user"`
}

// RegisterResponse reports the new account and whether its confirmation email left.
type RegisterResponse struct {
	Message    string         `json:"message"`
	User       *database.User `json:"user"`
	EmailSent  bool           `json:"email_sent"`
	EmailError string         `json:"email_error,omitempty"`
}

// EmailStatusResponse reports whether an address has been confirmed.
type EmailStatusResponse struct {
	Email          string `json:"email"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

// CompareResponse lists the candidates present in two contests.
type CompareResponse struct {
	Matches []matcher.ComparisonEntry `json:"matches"`
	Count   int                       `json:"count"`
}

// DeleteCountResponse reports how many rows a bulk delete removed.
type DeleteCountResponse struct {
	Deleted int64 `json:"deleted"`
}

// SuggestionsResponse wraps fuzzy name suggestions.
type SuggestionsResponse struct {
	Query       string               `json:"query"`
	Suggestions []matcher.Suggestion `json:"suggestions"`
}

// HealthResponse is the body of /api/health.
type HealthResponse struct {
	Status    string         `json:"status"` // "ok", "degraded"
	Timestamp int64          `json:"timestamp"`
	Database  string         `json:"database"`
	Counts    map[string]int `json:"counts,omitempty"`
}

// NewMessageResponse creates a new MessageResponse
func NewMessageResponse(message string, code string) *MessageResponse {
	return &MessageResponse{
		Message: message,
		Code:    code,
	}
}

// NewTokenResponse wraps a session token for the user.
func NewTokenResponse(session *database.Session, user *database.User) *TokenResponse {
	return &TokenResponse{
		AccessToken: session.ID,
		TokenType:   TokenTypeBearer,
		User:        user,
	}
}

// NewCompareResponse never renders matches as null.
func NewCompareResponse(matches []matcher.ComparisonEntry) *CompareResponse {
	if matches == nil {
		matches = []matcher.ComparisonEntry{}
	}
	return &CompareResponse{Matches: matches, Count: len(matches)}
}

// NewRegisterResponse flattens a RegistrationResult for the wire.
func NewRegisterResponse(result *RegistrationResult) *RegisterResponse {
	resp := &RegisterResponse{
		Message:   "Usuário cadastrado com sucesso. Verifique seu e-mail para confirmar a conta.",
		User:      result.User,
		EmailSent: result.Email.Sent,
	}
	if result.Email.Err != nil {
		resp.EmailError = result.Email.Err.Error()
	}
	return resp
}

func newHealthResponse(counts map[string]int, dbErr error) *HealthResponse {
	resp := &HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Unix(),
		Database:  "sqlite",
		Counts:    counts,
	}
	if dbErr != nil {
		resp.Status = "degraded"
	}
	return resp
}
