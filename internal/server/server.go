// file: internal/server/server.go
// version: 2.0.0
// guid: 4b5c6d7e-8f9a-0b1c-2d3e-4f5a6b7c8d9e

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/classificacaofinal/classificacao/internal/cache"
	"github.com/classificacaofinal/classificacao/internal/config"
	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/logging"
	"github.com/classificacaofinal/classificacao/internal/mail"
	"github.com/classificacaofinal/classificacao/internal/metrics"
	"github.com/classificacaofinal/classificacao/internal/oauth"
	servermiddleware "github.com/classificacaofinal/classificacao/internal/server/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	heartbeatInterval = time.Minute
	// bulkBodyFactor scales the body limit for result lists and name batches.
	bulkBodyFactor = 8
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *gin.Engine

	store            database.Store
	identityProvider oauth.IdentityProvider
	oauthStates      *cache.Cache[oauthState]
	frontendURL      string
	corsOrigins      []string

	contestService *ContestService
	resultService  *ResultService
	extraService   *ExtraService
	matchService   *MatchService
	authService    *AuthService
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Options wires the collaborators of a Server. A nil Sender disables email
// delivery and a nil IdentityProvider disables Google sign-in.
type Options struct {
	Store            database.Store
	Sender           mail.Sender
	IdentityProvider oauth.IdentityProvider

	FrontendURL        string
	CORSOrigins        []string
	SessionTTL         time.Duration
	ConfirmationTTL    time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
	MaxBodyBytes       int64
}

// OptionsFromConfig copies the HTTP settings of cfg into Options.
func OptionsFromConfig(cfg config.Config, store database.Store, sender mail.Sender, provider oauth.IdentityProvider) Options {
	return Options{
		Store:              store,
		Sender:             sender,
		IdentityProvider:   provider,
		FrontendURL:        cfg.FrontendURL,
		CORSOrigins:        cfg.CORSOrigins,
		SessionTTL:         cfg.SessionTTL,
		ConfirmationTTL:    cfg.ConfirmationTTL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RateLimitBurst:     cfg.RateLimitBurst,
		MaxBodyBytes:       cfg.MaxBodyBytes,
	}
}

// NewServer creates a new server instance
func NewServer(opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.ConfirmationTTL <= 0 {
		opts.ConfirmationTTL = 24 * time.Hour
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.Sender == nil {
		opts.Sender = mail.DisabledSender{FrontendURL: opts.FrontendURL}
	}

	router := gin.New()
	router.Use(servermiddleware.RequestID())
	router.Use(servermiddleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(opts.CORSOrigins))
	router.Use(servermiddleware.MaxRequestBodySize(opts.MaxBodyBytes, opts.MaxBodyBytes*bulkBodyFactor))

	// Register metrics (idempotent)
	metrics.Register()

	server := &Server{
		router:           router,
		store:            opts.Store,
		identityProvider: opts.IdentityProvider,
		oauthStates:      cache.New[oauthState](oauthStateTTL),
		frontendURL:      strings.TrimRight(opts.FrontendURL, "/"),
		corsOrigins:      opts.CORSOrigins,
		contestService:   NewContestService(opts.Store),
		resultService:    NewResultService(opts.Store),
		extraService:     NewExtraService(opts.Store),
		matchService:     NewMatchService(opts.Store),
		authService:      NewAuthService(opts.Store, opts.Sender, opts.SessionTTL, opts.ConfirmationTTL),
	}

	server.setupRoutes(servermiddleware.NewRateLimiter(opts.RateLimitPerMinute, opts.RateLimitBurst))

	return server
}

// Handler exposes the router, mostly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until SIGINT or SIGTERM.
func (s *Server) Start(cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.Log.Infof("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	stopHeartbeat := make(chan struct{})
	go s.heartbeat(stopHeartbeat)
	defer close(stopHeartbeat)

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	logging.Log.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logging.Log.Info("Server exited")
	return nil
}

func (s *Server) heartbeat(stop <-chan struct{}) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	s.refreshGauges()
	for {
		select {
		case <-ticker.C:
			s.refreshGauges()
			if n, err := s.store.DeleteExpiredSessions(time.Now()); err != nil {
				logging.Log.WithError(err).Debug("heartbeat: failed to delete expired sessions")
			} else if n > 0 {
				logging.Log.Debugf("heartbeat: removed %d expired sessions", n)
			}
			if n := s.oauthStates.PurgeExpired(); n > 0 {
				logging.Log.Debugf("heartbeat: dropped %d expired oauth states", n)
			}
		case <-stop:
			return
		}
	}
}

// refreshGauges updates the table size gauges and returns the counts it read.
func (s *Server) refreshGauges() (map[string]int, error) {
	counts := make(map[string]int, 3)
	var firstErr error
	for _, c := range []struct {
		name  string
		count func() (int, error)
		set   func(int)
	}{
		{"contests", s.store.CountContests, metrics.SetContests},
		{"results", s.store.CountResults, metrics.SetResults},
		{"users", s.store.CountUsers, metrics.SetUsers},
	} {
		n, err := c.count()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			logging.Log.WithError(err).Debugf("failed to count %s", c.name)
			continue
		}
		counts[c.name] = n
		c.set(n)
	}
	return counts, firstErr
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes(limiter *servermiddleware.RateLimiter) {
	requireAuth := servermiddleware.RequireAuth(s.store)
	requireAdmin := []gin.HandlerFunc{requireAuth, servermiddleware.RequireAdmin()}

	s.router.GET("/", s.root)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := s.router.Group("/auth", limiter.Middleware(servermiddleware.ScopeAuth))
	{
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
		auth.POST("/confirmar-email", s.confirmEmail)
		auth.POST("/resend-confirmation", s.resendConfirmation)
		auth.GET("/me", requireAuth, s.me)
		auth.POST("/logout", requireAuth, s.logout)
		auth.GET("/email-status/:email", s.emailStatus)
		auth.GET("/google", s.googleLogin)
		auth.GET("/google/callback", s.googleCallback)
	}

	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)

		// Contest routes
		api.GET("/contests", s.listContests)
		api.POST("/contests", append(requireAdmin, s.createContest)...)
		api.GET("/contests/compare/:id1/:id2", s.compareContests)
		api.GET("/contests/:id", s.getContest)
		api.PUT("/contests/:id", append(requireAdmin, s.updateContest)...)
		api.DELETE("/contests/:id", append(requireAdmin, s.deleteContest)...)

		// Result list routes
		api.POST("/contest-results", append(requireAdmin, s.createResults)...)
		api.GET("/contest-results/:contest_id", s.listContestResults)
		api.DELETE("/contest-results/:contest_id/:category", append(requireAdmin, s.deleteResultsByCategory)...)

		// Status attachment routes
		api.POST("/contest-results-extra", requireAuth, s.upsertResultExtra)
		api.GET("/contest-results-extra/by-contest/:contest_id", s.listContestExtras)
		api.GET("/contest-results-extra/:result_id", s.getResultExtra)

		// Candidate lookup routes
		api.GET("/results-by-name", s.resultsByName)
		api.GET("/results-by-criteria", s.resultsByCriteria)
		api.GET("/results-suggestions", s.resultsSuggestions)
		batchLimit := limiter.Middleware(servermiddleware.ScopeBatchLookup)
		api.POST("/results-by-names-batch", batchLimit, s.resultsByNamesBatch)
		api.POST("/results-by-names", batchLimit, s.resultsByNames)
	}
}

// corsMiddleware reflects allowed origins so credentialed requests work.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && slices.Contains(allowed, origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, NewMessageResponse("API de Classificação de Concursos", ""))
}

func (s *Server) healthCheck(c *gin.Context) {
	counts, err := s.refreshGauges()
	c.JSON(http.StatusOK, newHealthResponse(counts, err))
}

// GetDefaultServerConfig returns default server configuration
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:         "8000",
		Host:         "0.0.0.0",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
