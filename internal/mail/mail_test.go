// file: internal/mail/mail_test.go
// version: 1.0.0
// guid: 6b1d9f3e-2a7c-4e58-91d4-c8f0a5e3b276

package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestConfirmationURL(t *testing.T) {
	assert.Equal(t, "http://localhost:5173/confirmar-email?token=abc-_1",
		ConfirmationURL("http://localhost:5173/", "abc-_1"))
}

func TestRenderConfirmationEscapesName(t *testing.T) {
	html, err := RenderConfirmation("<Ana>", "https://app.example.org/confirmar-email?token=t")
	require.NoError(t, err)
	assert.Contains(t, html, "Olá, &lt;Ana&gt;!")
	assert.Contains(t, html, `href="https://app.example.org/confirmar-email?token=t"`)
}

func TestDisabledSender(t *testing.T) {
	err := DisabledSender{FrontendURL: "http://x"}.SendConfirmation(context.Background(), ConfirmationEmail{ToEmail: "a@b.c", Token: "t"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func newTestSender(endpoint string) *MailjetSender {
	return NewMailjetSender(MailjetConfig{
		APIKey:      "key",
		SecretKey:   "secret",
		FromEmail:   "no-reply@example.org",
		FromName:    "Classificação",
		FrontendURL: "https://app.example.org",
		Endpoint:    endpoint,
		RetryMax:    1,
	})
}

func TestMailjetSenderSuccess(t *testing.T) {
	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		captured, _ = io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"Messages": []map[string]any{{"Status": "success"}},
		})
	}))
	defer srv.Close()

	err := newTestSender(srv.URL).SendConfirmation(context.Background(), ConfirmationEmail{
		ToEmail: "ana@example.org",
		ToName:  "Ana",
		Token:   "tok",
	})
	require.NoError(t, err)

	payload := string(captured)
	assert.Equal(t, "ana@example.org", gjson.Get(payload, "Messages.0.To.0.Email").Str)
	assert.Equal(t, "no-reply@example.org", gjson.Get(payload, "Messages.0.From.Email").Str)
	assert.Equal(t, "EmailConfirmation", gjson.Get(payload, "Messages.0.CustomID").Str)
	assert.True(t, strings.Contains(gjson.Get(payload, "Messages.0.HTMLPart").Str,
		"https://app.example.org/confirmar-email?token=tok"))
}

func TestMailjetSenderRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ErrorMessage":"API key authentication/authorization failure"}`))
	}))
	defer srv.Close()

	err := newTestSender(srv.URL).SendConfirmation(context.Background(), ConfirmationEmail{ToEmail: "a@b.c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "authorization failure")
}

func TestMailjetSenderMessageError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Messages":[{"Status":"error"}]}`))
	}))
	defer srv.Close()

	err := newTestSender(srv.URL).SendConfirmation(context.Background(), ConfirmationEmail{ToEmail: "a@b.c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"error"`)
}

func TestMailjetSenderRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"Messages":[{"Status":"success"}]}`))
	}))
	defer srv.Close()

	err := newTestSender(srv.URL).SendConfirmation(context.Background(), ConfirmationEmail{ToEmail: "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
