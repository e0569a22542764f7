// file: internal/server/response_types_test.go
// version: 2.0.0
// guid: 8a9b0c1d-2e3f-4a5b-6c7d-8e9f0a1b2c3d

package server

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageResponse(t *testing.T) {
	resp := NewMessageResponse("ok", "DONE")
	assert.Equal(t, "ok", resp.Message)
	assert.Equal(t, "DONE", resp.Code)
}

func TestNewTokenResponse(t *testing.T) {
	user := &database.User{ID: "u1", Email: "ana@example.com"}
	resp := NewTokenResponse(&database.Session{ID: "tok"}, user)

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "tok", decoded["access_token"])
	assert.Equal(t, "bearer", decoded["token_type"])
	assert.Equal(t, "ana@example.com", decoded["user"].(map[string]any)["email"])
}

func TestNewCompareResponse(t *testing.T) {
	empty := NewCompareResponse(nil)
	data, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"matches":[],"count":0}`, string(data))

	resp := NewCompareResponse([]matcher.ComparisonEntry{{Name: "Ana"}, {Name: "Bia"}})
	assert.Equal(t, 2, resp.Count)
}

func TestNewRegisterResponse(t *testing.T) {
	user := &database.User{ID: "u1"}

	sent := NewRegisterResponse(&RegistrationResult{User: user, Email: DeliveryOutcome{Attempted: true, Sent: true}})
	assert.True(t, sent.EmailSent)
	assert.Empty(t, sent.EmailError)

	failed := NewRegisterResponse(&RegistrationResult{User: user, Email: DeliveryOutcome{Attempted: true, Err: errors.New("smtp down")}})
	assert.False(t, failed.EmailSent)
	assert.Equal(t, "smtp down", failed.EmailError)
	assert.Same(t, user, failed.User)
}

func TestNewHealthResponse(t *testing.T) {
	ok := newHealthResponse(map[string]int{"contests": 2}, nil)
	assert.Equal(t, "ok", ok.Status)
	assert.Equal(t, 2, ok.Counts["contests"])

	degraded := newHealthResponse(nil, errors.New("locked"))
	assert.Equal(t, "degraded", degraded.Status)
}
