// file: internal/database/sqlite_users.go
// version: 1.0.0
// guid: 56d6ddd6-06ad-45fe-9eb0-f8728192f02c

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const userSelectColumns = `
	id, email, username, password_hash, provider, role, is_active, email_confirmed,
	confirmation_token, confirmation_sent_at, picture, created_at, updated_at
`

const sessionSelectColumns = `id, user_id, created_at, expires_at, ip, user_agent, revoked`

func scanUser(scanner rowScanner, user *User) error {
	var token, picture sql.NullString
	var sentAt sql.NullTime
	if err := scanner.Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.Provider,
		&user.Role, &user.IsActive, &user.EmailConfirmed, &token, &sentAt, &picture,
		&user.CreatedAt, &user.UpdatedAt,
	); err != nil {
		return err
	}
	user.ConfirmationToken = nullStringPtr(token)
	user.Picture = nullStringPtr(picture)
	if sentAt.Valid {
		t := sentAt.Time
		user.ConfirmationSentAt = &t
	}
	return nil
}

func scanSession(scanner rowScanner, session *Session) error {
	return scanner.Scan(
		&session.ID, &session.UserID, &session.CreatedAt, &session.ExpiresAt,
		&session.IP, &session.UserAgent, &session.Revoked,
	)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateUser inserts user, assigning an ID and timestamps when missing.
func (s *SQLiteStore) CreateUser(user *User) (*User, error) {
	created := *user
	if created.ID == "" {
		created.ID = NewID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Provider == "" {
		created.Provider = ProviderLocal
	}
	if created.Role == "" {
		created.Role = RoleComum
	}

	_, err := s.db.Exec(`INSERT INTO users
		(id, email, username, password_hash, provider, role, is_active, email_confirmed,
		 confirmation_token, confirmation_sent_at, picture, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.Email, created.Username, created.PasswordHash, created.Provider,
		created.Role, created.IsActive, created.EmailConfirmed, created.ConfirmationToken,
		created.ConfirmationSentAt, created.Picture, created.CreatedAt, created.UpdatedAt,
	)
	if isUniqueViolation(err) && strings.Contains(err.Error(), "users.email") {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &created, nil
}

func (s *SQLiteStore) getUser(where string, arg any) (*User, error) {
	var user User
	err := scanUser(s.db.QueryRow("SELECT "+userSelectColumns+" FROM users WHERE "+where, arg), &user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SQLiteStore) GetUserByID(id string) (*User, error) {
	return s.getUser("id = ?", id)
}

// GetUserByEmail matches case-insensitively.
func (s *SQLiteStore) GetUserByEmail(email string) (*User, error) {
	return s.getUser("email = ?", strings.TrimSpace(email))
}

func (s *SQLiteStore) GetUserByConfirmationToken(token string) (*User, error) {
	if token == "" {
		return nil, nil
	}
	return s.getUser("confirmation_token = ?", token)
}

func (s *SQLiteStore) UpdateUser(user *User) error {
	user.UpdatedAt = time.Now().UTC()
	result, err := s.db.Exec(`UPDATE users SET
		email = ?, username = ?, password_hash = ?, provider = ?, role = ?, is_active = ?,
		email_confirmed = ?, confirmation_token = ?, confirmation_sent_at = ?, picture = ?,
		updated_at = ?
		WHERE id = ?`,
		user.Email, user.Username, user.PasswordHash, user.Provider, user.Role, user.IsActive,
		user.EmailConfirmed, user.ConfirmationToken, user.ConfirmationSentAt, user.Picture,
		user.UpdatedAt, user.ID,
	)
	if isUniqueViolation(err) && strings.Contains(err.Error(), "users.email") {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CountUsers() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// Session operations

func (s *SQLiteStore) CreateSession(userID, ip, userAgent string, ttl time.Duration) (*Session, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	session := &Session{
		ID:        token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		IP:        ip,
		UserAgent: userAgent,
	}
	_, err = s.db.Exec(
		"INSERT INTO sessions (id, user_id, created_at, expires_at, ip, user_agent, revoked) VALUES (?, ?, ?, ?, ?, ?, ?)",
		session.ID, session.UserID, session.CreatedAt, session.ExpiresAt, session.IP, session.UserAgent, false,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (s *SQLiteStore) GetSession(id string) (*Session, error) {
	var session Session
	err := scanSession(s.db.QueryRow("SELECT "+sessionSelectColumns+" FROM sessions WHERE id = ?", id), &session)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SQLiteStore) RevokeSession(id string) error {
	result, err := s.db.Exec("UPDATE sessions SET revoked = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListUserSessions(userID string) ([]Session, error) {
	rows, err := s.db.Query(
		"SELECT "+sessionSelectColumns+" FROM sessions WHERE user_id = ? ORDER BY created_at DESC", userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var session Session
		if err := scanSession(rows, &session); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// DeleteExpiredSessions purges sessions that expired or were revoked before now.
func (s *SQLiteStore) DeleteExpiredSessions(now time.Time) (int64, error) {
	result, err := s.db.Exec("DELETE FROM sessions WHERE expires_at <= ? OR revoked = 1", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}
