// file: internal/mail/mail.go
// version: 1.0.0
// guid: 4f7a2c91-3b8e-4d56-a0c2-9e1d7b5f3a68

package mail

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/classificacaofinal/classificacao/internal/logging"
)

// ErrDisabled is returned by senders that have no delivery backend configured.
var ErrDisabled = errors.New("email delivery is not configured")

// ConfirmationEmail carries what the confirmation message needs.
type ConfirmationEmail struct {
	ToEmail string
	ToName  string
	Token   string
}

// Sender delivers account emails. Implementations must be safe for concurrent use.
type Sender interface {
	SendConfirmation(ctx context.Context, msg ConfirmationEmail) error
}

// ConfirmationURL builds the frontend link that confirms token.
func ConfirmationURL(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/confirmar-email?token=" + url.QueryEscape(token)
}

// DisabledSender is used when Mailjet credentials are missing.
// It logs the link at debug level so local setups can still confirm accounts.
type DisabledSender struct {
	FrontendURL string
}

func (d DisabledSender) SendConfirmation(_ context.Context, msg ConfirmationEmail) error {
	logging.Log.WithField("to", msg.ToEmail).
		Debugf("Email disabled, confirmation link: %s", ConfirmationURL(d.FrontendURL, msg.Token))
	return ErrDisabled
}
