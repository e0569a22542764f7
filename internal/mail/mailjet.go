// file: internal/mail/mailjet.go
// version: 1.0.0
// guid: 2d8b6e40-7c1a-4f95-b3e2-5a9c0d1f7e84

package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/classificacaofinal/classificacao/internal/logging"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

// DefaultMailjetEndpoint is the Mailjet v3.1 send API.
const DefaultMailjetEndpoint = "https://api.mailjet.com/v3.1/send"

// MailjetConfig configures a MailjetSender.
type MailjetConfig struct {
	APIKey      string
	SecretKey   string
	FromEmail   string
	FromName    string
	FrontendURL string
	// Endpoint overrides DefaultMailjetEndpoint, mostly for tests.
	Endpoint string
	RetryMax int
}

// MailjetSender sends confirmation emails through the Mailjet HTTP API.
type MailjetSender struct {
	cfg    MailjetConfig
	client *retryablehttp.Client
}

// NewMailjetSender returns a sender that retries transient failures.
func NewMailjetSender(cfg MailjetConfig) *MailjetSender {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultMailjetEndpoint
	}
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = cfg.RetryMax
	if retryClient.RetryMax == 0 {
		retryClient.RetryMax = 3
	}
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.HTTPClient.Timeout = 15 * time.Second
	return &MailjetSender{cfg: cfg, client: retryClient}
}

type mailjetAddress struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type mailjetMessage struct {
	From     mailjetAddress   `json:"From"`
	To       []mailjetAddress `json:"To"`
	Subject  string           `json:"Subject"`
	HTMLPart string           `json:"HTMLPart"`
	CustomID string           `json:"CustomID"`
}

type mailjetPayload struct {
	Messages []mailjetMessage `json:"Messages"`
}

func (m *MailjetSender) SendConfirmation(ctx context.Context, msg ConfirmationEmail) error {
	html, err := RenderConfirmation(msg.ToName, ConfirmationURL(m.cfg.FrontendURL, msg.Token))
	if err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	body, err := json.Marshal(mailjetPayload{Messages: []mailjetMessage{{
		From:     mailjetAddress{Email: m.cfg.FromEmail, Name: m.cfg.FromName},
		To:       []mailjetAddress{{Email: msg.ToEmail, Name: msg.ToName}},
		Subject:  confirmationSubject,
		HTMLPart: html,
		CustomID: "EmailConfirmation",
	}}})
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(m.cfg.APIKey, m.cfg.SecretKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mailjet request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read mailjet response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mailjet returned status %d: %s", resp.StatusCode, gjson.GetBytes(respBody, "ErrorMessage").Str)
	}
	if status := gjson.GetBytes(respBody, "Messages.0.Status").Str; status != "success" {
		return fmt.Errorf("mailjet message status %q", status)
	}

	logging.Log.WithField("to", msg.ToEmail).Info("Confirmation email sent")
	return nil
}
