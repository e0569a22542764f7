// file: internal/server/auth_handlers.go
// version: 2.0.0
// guid: 1457df2f-af76-46cb-a2f4-c9f6f275f93a

package server

import (
	"errors"
	"html/template"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/logging"
	"github.com/classificacaofinal/classificacao/internal/metrics"
	servermiddleware "github.com/classificacaofinal/classificacao/internal/server/middleware"
	"github.com/gin-gonic/gin"
)

// oauthStateTTL bounds how long a Google sign-in may take.
const oauthStateTTL = 10 * time.Minute

// oauthState is what the redirect remembers until the callback arrives.
type oauthState struct {
	FrontendOrigin string
}

// googleUserData is the user summary posted back to the opener window.
type googleUserData struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

type googleCallbackPayload struct {
	Status      string          `json:"status"`
	AccessToken string          `json:"access_token,omitempty"`
	UserData    *googleUserData `json:"user_data,omitempty"`
	Message     string          `json:"message,omitempty"`
}

var googleCallbackPage = template.Must(template.New("google-callback").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Autenticação</title></head>
<body>
<p>{{if eq .Payload.Status "success"}}Autenticação concluída. Esta janela será fechada.{{else}}Falha na autenticação.{{end}}</p>
<script>
  if (window.opener) {
    window.opener.postMessage({{.Payload}}, {{.Origin}});
  }
  window.close();
</script>
</body>
</html>`))

func isHTTPSRequest(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")), "https")
}

func setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	if c == nil {
		return
	}
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     servermiddleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isHTTPSRequest(c),
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     servermiddleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isHTTPSRequest(c),
		SameSite: http.SameSiteLaxMode,
	})
}

func clientInfo(c *gin.Context) ClientInfo {
	return ClientInfo{
		IP:        strings.TrimSpace(c.ClientIP()),
		UserAgent: strings.TrimSpace(c.Request.UserAgent()),
	}
}

func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); HandleBindError(c, err) {
		return
	}

	result, err := s.authService.Register(c.Request.Context(), req)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	LogAuditEvent("user", result.User.ID, result.User.ID, "register", "account created")
	c.JSON(http.StatusCreated, NewRegisterResponse(result))
}

func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); HandleBindError(c, err) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		RespondWithValidationError(c, "email", "email and password are required")
		return
	}

	session, user, err := s.authService.Login(req, clientInfo(c))
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	setSessionCookie(c, session.ID, session.ExpiresAt)
	c.JSON(http.StatusOK, NewTokenResponse(session, user))
}

func (s *Server) confirmEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); HandleBindError(c, err) {
		return
	}

	session, user, err := s.authService.ConfirmEmail(req.Token, clientInfo(c))
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	setSessionCookie(c, session.ID, session.ExpiresAt)
	c.JSON(http.StatusOK, NewTokenResponse(session, user))
}

// resendConfirmation answers the same way for unknown, confirmed and pending
// addresses so it cannot be used to probe accounts.
func (s *Server) resendConfirmation(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); HandleBindError(c, err) {
		return
	}
	if err := ValidateEmail(req.Email); err != nil {
		RespondWithServiceError(c, err)
		return
	}

	outcome, err := s.authService.ResendConfirmation(c.Request.Context(), req.Email)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	if outcome.Err != nil {
		logging.Log.WithError(outcome.Err).Debug("resend confirmation delivery failed")
	}
	c.JSON(http.StatusOK, NewMessageResponse(
		"Se o e-mail estiver cadastrado e pendente de confirmação, um novo link foi enviado.", ""))
}

func (s *Server) me(c *gin.Context) {
	user, ok := servermiddleware.CurrentUser(c)
	if !ok {
		RespondWithUnauthorized(c, "not authenticated")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) logout(c *gin.Context) {
	session, ok := servermiddleware.CurrentSession(c)
	if ok && session != nil {
		if err := s.authService.Logout(session.ID); err != nil && !errors.Is(err, database.ErrNotFound) {
			RespondWithServiceError(c, err)
			return
		}
	}
	clearSessionCookie(c)
	c.JSON(http.StatusOK, NewMessageResponse("logged out", ""))
}

func (s *Server) emailStatus(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	confirmed, err := s.authService.EmailStatus(email)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, EmailStatusResponse{Email: email, EmailConfirmed: confirmed})
}

// allowedOrigin returns origin when it is one of the configured frontends,
// otherwise the default frontend URL.
func (s *Server) allowedOrigin(origin string) string {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin != "" && slices.Contains(s.corsOrigins, origin) {
		return origin
	}
	return s.frontendURL
}

func (s *Server) googleLogin(c *gin.Context) {
	if s.identityProvider == nil {
		RespondWithError(c, http.StatusServiceUnavailable, "google sign-in is not configured", "GOOGLE_DISABLED")
		return
	}
	state, err := database.NewToken()
	if err != nil {
		RespondWithInternalError(c, "failed to start google sign-in")
		return
	}
	s.oauthStates.Set(state, oauthState{FrontendOrigin: s.allowedOrigin(c.Query("frontend_origin"))})
	c.Redirect(http.StatusTemporaryRedirect, s.identityProvider.AuthCodeURL(state))
}

func (s *Server) googleCallback(c *gin.Context) {
	if s.identityProvider == nil {
		RespondWithError(c, http.StatusServiceUnavailable, "google sign-in is not configured", "GOOGLE_DISABLED")
		return
	}

	state, ok := s.oauthStates.Take(c.Query("state"))
	if !ok {
		metrics.IncAuthEvent("google", "invalid_state")
		s.renderGoogleCallback(c, http.StatusBadRequest, s.frontendURL, googleCallbackPayload{
			Status:  "error",
			Message: "Sessão de autenticação inválida ou expirada.",
		})
		return
	}
	if providerErr := c.Query("error"); providerErr != "" {
		metrics.IncAuthEvent("google", "denied")
		s.renderGoogleCallback(c, http.StatusBadRequest, state.FrontendOrigin, googleCallbackPayload{
			Status:  "error",
			Message: providerErr,
		})
		return
	}

	identity, err := s.identityProvider.Exchange(c.Request.Context(), c.Query("code"))
	if err == nil {
		var session *database.Session
		var user *database.User
		session, user, err = s.authService.LoginWithGoogle(identity, clientInfo(c))
		if err == nil {
			setSessionCookie(c, session.ID, session.ExpiresAt)
			s.renderGoogleCallback(c, http.StatusOK, state.FrontendOrigin, googleCallbackPayload{
				Status:      "success",
				AccessToken: session.ID,
				UserData: &googleUserData{
					ID:       user.ID,
					Email:    user.Email,
					Name:     user.Username,
					Provider: user.Provider,
				},
			})
			return
		}
	}

	metrics.IncAuthEvent("google", "failed")
	logging.Log.WithError(err).Warn("google sign-in failed")
	s.renderGoogleCallback(c, http.StatusBadRequest, state.FrontendOrigin, googleCallbackPayload{
		Status:  "error",
		Message: err.Error(),
	})
}

func (s *Server) renderGoogleCallback(c *gin.Context, status int, origin string, payload googleCallbackPayload) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := googleCallbackPage.Execute(c.Writer, struct {
		Payload googleCallbackPayload
		Origin  string
	}{payload, origin}); err != nil {
		logging.Log.WithError(err).Error("failed to render google callback page")
	}
}
