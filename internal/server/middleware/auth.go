// file: internal/server/middleware/auth.go
// version: 2.0.0
// guid: 83c42ecb-1df2-4baf-9890-3f91ab4db6fe

package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName is the auth session cookie used by API clients.
	SessionCookieName = "session_id"
	contextUserKey    = "auth_user"
	contextSessionKey = "auth_session"
)

// abortWithError writes the same error shape the handlers use.
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code, "status": status})
}

// SessionTokenFromRequest extracts the session token from Bearer auth or cookie.
func SessionTokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		token := strings.TrimSpace(authHeader[len("Bearer "):])
		if token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

// CurrentUser fetches the authenticated user from Gin context.
func CurrentUser(c *gin.Context) (*database.User, bool) {
	if c == nil {
		return nil, false
	}
	value, ok := c.Get(contextUserKey)
	if !ok || value == nil {
		return nil, false
	}
	user, ok := value.(*database.User)
	return user, ok && user != nil
}

// CurrentSession fetches the authenticated session from Gin context.
func CurrentSession(c *gin.Context) (*database.Session, bool) {
	if c == nil {
		return nil, false
	}
	value, ok := c.Get(contextSessionKey)
	if !ok || value == nil {
		return nil, false
	}
	session, ok := value.(*database.Session)
	return session, ok && session != nil
}

// RequireAuth rejects requests without a live session of an active user.
func RequireAuth(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionTokenFromRequest(c.Request)
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		session, err := store.GetSession(token)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to check session")
			return
		}
		if session == nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session")
			return
		}
		if session.Expired(time.Now()) {
			if !session.Revoked {
				_ = store.RevokeSession(token)
			}
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "session expired")
			return
		}

		user, err := store.GetUserByID(session.UserID)
		if err != nil || user == nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session user")
			return
		}
		if !user.IsActive {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "inactive user")
			return
		}

		c.Set(contextUserKey, user)
		c.Set(contextSessionKey, session)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		if !user.IsAdmin() {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "admin role required")
			return
		}
		c.Next()
	}
}
