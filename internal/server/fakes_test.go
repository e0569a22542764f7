// file: internal/server/fakes_test.go
// version: 1.0.0
// guid: 9e1b4d72-3a6c-4f08-b5d2-c7a0e8f3b146

package server

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/classificacaofinal/classificacao/internal/mail"
	"github.com/classificacaofinal/classificacao/internal/oauth"
)

// recordingSender keeps every confirmation email instead of delivering it.
type recordingSender struct {
	mu   sync.Mutex
	sent []mail.ConfirmationEmail
	err  error
}

func (r *recordingSender) SendConfirmation(_ context.Context, msg mail.ConfirmationEmail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func (r *recordingSender) last() (mail.ConfirmationEmail, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return mail.ConfirmationEmail{}, false
	}
	return r.sent[len(r.sent)-1], true
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

// fakeProvider accepts the code "good" and rejects everything else.
type fakeProvider struct {
	identity *oauth.Identity
}

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.test/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (f *fakeProvider) Exchange(_ context.Context, code string) (*oauth.Identity, error) {
	if code != "good" {
		return nil, errors.New("oauth2: cannot fetch token: 400 Bad Request")
	}
	return f.identity, nil
}
