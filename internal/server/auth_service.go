// file: internal/server/auth_service.go
// version: 1.0.0
// guid: e2a7c4d9-5b1f-4e36-9a08-b4d6f3c1e275

package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/logging"
	"github.com/classificacaofinal/classificacao/internal/mail"
	"github.com/classificacaofinal/classificacao/internal/metrics"
	"github.com/classificacaofinal/classificacao/internal/oauth"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken       = errors.New("invalid or expired confirmation token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInactiveUser       = errors.New("user account is inactive")
)

// googlePasswordPlaceholder marks accounts that cannot sign in with a password.
const googlePasswordPlaceholder = "oauth_google"

// DeliveryOutcome reports a side-effect email. A failed delivery never undoes
// the operation that triggered it.
type DeliveryOutcome struct {
	Attempted bool
	Sent      bool
	Err       error
}

// RegistrationResult is a created account plus the fate of its confirmation email.
type RegistrationResult struct {
	User  *database.User
	Email DeliveryOutcome
}

// ClientInfo identifies the client opening a session.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService handles accounts, sessions and confirmation emails.
type AuthService struct {
	db              database.Store
	sender          mail.Sender
	sessionTTL      time.Duration
	confirmationTTL time.Duration
	now             func() time.Time
}

func NewAuthService(db database.Store, sender mail.Sender, sessionTTL, confirmationTTL time.Duration) *AuthService {
	if sender == nil {
		sender = mail.DisabledSender{}
	}
	return &AuthService{
		db:              db,
		sender:          sender,
		sessionTTL:      sessionTTL,
		confirmationTTL: confirmationTTL,
		now:             time.Now,
	}
}

// Register creates an unconfirmed local account and sends its confirmation email.
func (as *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegistrationResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := ValidateRequired("name", name); err != nil {
		return nil, err
	}

	existing, err := as.db.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		metrics.IncAuthEvent("register", "duplicate")
		return nil, database.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	token, err := database.NewToken()
	if err != nil {
		return nil, err
	}
	sentAt := as.now().UTC()

	user, err := as.db.CreateUser(&database.User{
		Email:              email,
		Username:           name,
		PasswordHash:       string(hash),
		Provider:           database.ProviderLocal,
		Role:               database.RoleComum,
		IsActive:           true,
		ConfirmationToken:  &token,
		ConfirmationSentAt: &sentAt,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			metrics.IncAuthEvent("register", "duplicate")
		}
		return nil, err
	}
	metrics.IncAuthEvent("register", "success")

	return &RegistrationResult{
		User:  user,
		Email: as.sendConfirmation(ctx, user, token),
	}, nil
}

func (as *AuthService) sendConfirmation(ctx context.Context, user *database.User, token string) DeliveryOutcome {
	err := as.sender.SendConfirmation(ctx, mail.ConfirmationEmail{
		ToEmail: user.Email,
		ToName:  user.Username,
		Token:   token,
	})
	outcome := DeliveryOutcome{Attempted: true, Sent: err == nil, Err: err}

	log := logging.Log.WithField("user_id", user.ID)
	switch {
	case err == nil:
		metrics.IncEmail(metrics.EmailSent)
		log.Info("confirmation email sent")
	case errors.Is(err, mail.ErrDisabled):
		metrics.IncEmail(metrics.EmailDisabled)
		log.Debug("confirmation email skipped, delivery disabled")
	default:
		metrics.IncEmail(metrics.EmailFailed)
		log.WithError(err).Warn("confirmation email failed")
	}
	return outcome
}

// Login checks the password and opens a session.
func (as *AuthService) Login(req LoginRequest, client ClientInfo) (*database.Session, *database.User, error) {
	user, err := as.db.GetUserByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, nil, err
	}
	if user == nil || user.PasswordHash == "" || user.PasswordHash == googlePasswordPlaceholder {
		metrics.IncAuthEvent("login", "invalid")
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		metrics.IncAuthEvent("login", "invalid")
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		metrics.IncAuthEvent("login", "inactive")
		return nil, nil, ErrInactiveUser
	}
	if !user.EmailConfirmed {
		metrics.IncAuthEvent("login", "unconfirmed")
		return nil, nil, ErrEmailNotConfirmed
	}

	session, err := as.db.CreateSession(user.ID, client.IP, client.UserAgent, as.sessionTTL)
	if err != nil {
		return nil, nil, err
	}
	metrics.IncAuthEvent("login", "success")
	return session, user, nil
}

// ConfirmEmail consumes a single-use confirmation token and signs the user in.
func (as *AuthService) ConfirmEmail(token string, client ClientInfo) (*database.Session, *database.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil, ErrInvalidToken
	}
	user, err := as.db.GetUserByConfirmationToken(token)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		metrics.IncAuthEvent("confirm", "invalid")
		return nil, nil, ErrInvalidToken
	}

	if user.ConfirmationSentAt != nil && as.now().Sub(*user.ConfirmationSentAt) > as.confirmationTTL {
		metrics.IncAuthEvent("confirm", "expired")
		return nil, nil, ErrInvalidToken
	}
	user.EmailConfirmed = true
	user.ConfirmationToken = nil
	user.UpdatedAt = as.now().UTC()
	if err := as.db.UpdateUser(user); err != nil {
		return nil, nil, err
	}
	metrics.IncAuthEvent("confirm", "success")

	session, err := as.db.CreateSession(user.ID, client.IP, client.UserAgent, as.sessionTTL)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// ResendConfirmation issues a fresh token for an unconfirmed account. Unknown
// and already confirmed addresses are not reported as errors so callers can
// answer with the same message whatever the outcome.
func (as *AuthService) ResendConfirmation(ctx context.Context, email string) (DeliveryOutcome, error) {
	user, err := as.db.GetUserByEmail(strings.TrimSpace(email))
	if err != nil {
		return DeliveryOutcome{}, err
	}
	if user == nil || user.EmailConfirmed {
		return DeliveryOutcome{}, nil
	}

	token, err := database.NewToken()
	if err != nil {
		return DeliveryOutcome{}, err
	}
	sentAt := as.now().UTC()
	user.ConfirmationToken = &token
	user.ConfirmationSentAt = &sentAt
	user.UpdatedAt = sentAt
	if err := as.db.UpdateUser(user); err != nil {
		return DeliveryOutcome{}, err
	}
	metrics.IncAuthEvent("resend", "success")
	return as.sendConfirmation(ctx, user, token), nil
}

// LoginWithGoogle finds or creates the account of a Google identity and opens a session.
func (as *AuthService) LoginWithGoogle(identity *oauth.Identity, client ClientInfo) (*database.Session, *database.User, error) {
	if identity == nil || strings.TrimSpace(identity.Email) == "" {
		return nil, nil, oauth.ErrMissingEmail
	}
	user, err := as.db.GetUserByEmail(identity.Email)
	if err != nil {
		return nil, nil, err
	}

	if user == nil {
		name := identity.Name
		if name == "" {
			name, _, _ = strings.Cut(identity.Email, "@")
		}
		newUser := &database.User{
			Email:          strings.ToLower(identity.Email),
			Username:       name,
			PasswordHash:   googlePasswordPlaceholder,
			Provider:       database.ProviderGoogle,
			Role:           database.RoleComum,
			IsActive:       true,
			EmailConfirmed: true,
		}
		if identity.Picture != "" {
			picture := identity.Picture
			newUser.Picture = &picture
		}
		if user, err = as.db.CreateUser(newUser); err != nil {
			return nil, nil, err
		}
		metrics.IncAuthEvent("google", "created")
		logging.Log.WithFields(logrus.Fields{"user_id": user.ID}).Info("created account from google sign-in")
	} else if !user.IsActive {
		metrics.IncAuthEvent("google", "inactive")
		return nil, nil, ErrInactiveUser
	}

	session, err := as.db.CreateSession(user.ID, client.IP, client.UserAgent, as.sessionTTL)
	if err != nil {
		return nil, nil, err
	}
	metrics.IncAuthEvent("google", "success")
	return session, user, nil
}

// Logout revokes a session.
func (as *AuthService) Logout(sessionID string) error {
	return as.db.RevokeSession(sessionID)
}

// EmailStatus reports whether an address is confirmed. Unknown addresses are ErrNotFound.
func (as *AuthService) EmailStatus(email string) (bool, error) {
	user, err := as.db.GetUserByEmail(strings.TrimSpace(email))
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, fmt.Errorf("user %s: %w", email, database.ErrNotFound)
	}
	return user.EmailConfirmed, nil
}
