// file: internal/oauth/oauth.go
// version: 1.0.0
// guid: e3a71c5d-8b29-4f06-9d4e-1c7b3a5f8e92

package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// DefaultUserInfoURL is Google's OpenID Connect userinfo endpoint.
const DefaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// ErrMissingEmail is returned when the provider does not share an email address.
var ErrMissingEmail = errors.New("email not found in the google account")

// Identity is the subset of the provider profile the application stores.
type Identity struct {
	Subject       string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

// IdentityProvider runs the authorization code flow of an external account provider.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// GoogleConfig configures a GoogleProvider.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint and UserInfoURL override Google's, mostly for tests.
	Endpoint    *oauth2.Endpoint
	UserInfoURL string
}

// GoogleProvider signs users in with their Google account.
type GoogleProvider struct {
	cfg         *oauth2.Config
	userInfoURL string
	client      *retryablehttp.Client
}

// NewGoogleProvider returns a provider requesting the openid, email and profile scopes.
func NewGoogleProvider(c GoogleConfig) *GoogleProvider {
	endpoint := endpoints.Google
	if c.Endpoint != nil {
		endpoint = *c.Endpoint
	}
	userInfo := c.UserInfoURL
	if userInfo == "" {
		userInfo = DefaultUserInfoURL
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.HTTPClient.Timeout = 10 * time.Second

	return &GoogleProvider{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfo,
		client:      retryClient,
	}
}

func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for a token and fetches the profile.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client.StandardClient())
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req.Request)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read userinfo: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}
	return parseUserInfo(body)
}

func parseUserInfo(body []byte) (*Identity, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("userinfo response is not valid JSON")
	}
	result := gjson.ParseBytes(body)
	identity := &Identity{
		Subject:       result.Get("sub").Str,
		Email:         strings.TrimSpace(result.Get("email").Str),
		Name:          strings.TrimSpace(result.Get("name").Str),
		Picture:       result.Get("picture").Str,
		EmailVerified: result.Get("email_verified").Bool(),
	}
	if identity.Email == "" {
		return nil, ErrMissingEmail
	}
	if identity.Name == "" {
		identity.Name = strings.SplitN(identity.Email, "@", 2)[0]
	}
	return identity, nil
}
