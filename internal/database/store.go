// file: internal/database/store.go
// version: 3.0.0
// guid: cea39112-d6f3-4db7-afdc-60639727bc6d

package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/classificacaofinal/classificacao/internal/models"
)

var (
	// ErrNotFound is returned by mutations that target a missing row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a user with the same email exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrLengthMismatch is returned when bulk result arrays differ in length.
	ErrLengthMismatch = errors.New("names and final_scores must have the same length")
)

// Store defines the persistence operations used by the API and the CLI.
// Lookups return (nil, nil) when the row does not exist.
type Store interface {
	// Lifecycle
	Close() error

	// Contests
	CreateContest(contest *models.Contest) (*models.Contest, error)
	GetContestByID(id int64) (*models.Contest, error)
	ListContests() ([]models.Contest, error)
	UpdateContest(id int64, patch models.ContestPatch) (*models.Contest, error)
	DeleteContest(id int64) error
	CountContests() (int, error)

	// Results
	CreateResults(contestID int64, category models.Category, names []string, scores []float64) ([]models.Result, error)
	GetResultByID(id int64) (*models.Result, error)
	ListResultsByContest(contestID int64) ([]models.Result, error)
	ListResultsByCategory(category models.Category) ([]models.Result, error)
	ListAllResults() ([]models.Result, error)
	DeleteResultsByCategory(contestID int64, category models.Category) (int64, error)
	CountResults() (int, error)

	// Result extras (status attachment)
	GetExtraByResultID(resultID int64) (*models.ResultExtra, error)
	UpsertExtra(resultID int64, patch models.ExtraPatch) (*models.ResultExtra, error)
	ListExtrasByContest(contestID int64) ([]models.ResultExtra, error)

	// Users
	CreateUser(user *User) (*User, error)
	GetUserByID(id string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetUserByConfirmationToken(token string) (*User, error)
	UpdateUser(user *User) error
	CountUsers() (int, error)

	// Sessions
	CreateSession(userID, ip, userAgent string, ttl time.Duration) (*Session, error)
	GetSession(id string) (*Session, error)
	RevokeSession(id string) error
	ListUserSessions(userID string) ([]Session, error)
	DeleteExpiredSessions(now time.Time) (int64, error)
}

const (
	RoleComum = "comum"
	RoleAdmin = "admin"

	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User is an account able to sign in with a password or through Google.
type User struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Username           string     `json:"name"`
	PasswordHash       string     `json:"-"`
	Provider           string     `json:"provider"`
	Role               string     `json:"role"`
	IsActive           bool       `json:"is_active"`
	EmailConfirmed     bool       `json:"email_confirmed"`
	ConfirmationToken  *string    `json:"-"`
	ConfirmationSentAt *time.Time `json:"-"`
	Picture            *string    `json:"picture,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Session represents an authenticated session token
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	Revoked   bool      `json:"revoked"`
}

// Expired reports whether the session can no longer be used at now.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || s.Revoked || !now.Before(s.ExpiresAt)
}

// GlobalStore is the store opened by the CLI entry points.
var GlobalStore Store

// InitializeStore opens the SQLite database at path and applies migrations.
func InitializeStore(path string) error {
	store, err := NewSQLiteStore(path)
	if err != nil {
		return fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	GlobalStore = store
	return nil
}

// CloseStore closes the global store
func CloseStore() error {
	if GlobalStore != nil {
		err := GlobalStore.Close()
		GlobalStore = nil
		return err
	}
	return nil
}
