// file: internal/config/config.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	DatabasePath string
	Host         string
	Port         int
	FrontendURL  string
	CORSOrigins  []string
	LogLevel     string

	Mail struct {
		APIKey    string
		SecretKey string
		FromEmail string
		FromName  string
	}

	Google struct {
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}

	SessionTTL         time.Duration
	ConfirmationTTL    time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
	MaxBodyBytes       int64
}

var AppConfig Config

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("database_path", "classificacao.db")
	viper.SetDefault("host", "0.0.0.0")
	viper.SetDefault("port", 8000)
	viper.SetDefault("frontend_url", "http://localhost:5173")
	viper.SetDefault("cors_origins", []string{"http://localhost:5173", "http://localhost:8000"})
	viper.SetDefault("log_level", "info")

	viper.SetDefault("mailjet_api_key", "")
	viper.SetDefault("mailjet_secret_key", "")
	viper.SetDefault("from_email", "")
	viper.SetDefault("from_name", "Classificação de Concursos")

	viper.SetDefault("google_client_id", "")
	viper.SetDefault("google_client_secret", "")
	viper.SetDefault("google_redirect_url", "http://localhost:8000/auth/google/callback")

	viper.SetDefault("session_ttl", "24h")
	viper.SetDefault("confirmation_ttl", "24h")
	viper.SetDefault("rate_limit_per_minute", 120)
	viper.SetDefault("rate_limit_burst", 30)
	viper.SetDefault("max_body_bytes", 1<<20)
}

// InitConfig initializes the application configuration
func InitConfig() {
	SetDefaults()

	AppConfig = Config{
		DatabasePath:       viper.GetString("database_path"),
		Host:               viper.GetString("host"),
		Port:               viper.GetInt("port"),
		FrontendURL:        strings.TrimRight(viper.GetString("frontend_url"), "/"),
		LogLevel:           viper.GetString("log_level"),
		SessionTTL:         viper.GetDuration("session_ttl"),
		ConfirmationTTL:    viper.GetDuration("confirmation_ttl"),
		RateLimitPerMinute: viper.GetInt("rate_limit_per_minute"),
		RateLimitBurst:     viper.GetInt("rate_limit_burst"),
		MaxBodyBytes:       viper.GetInt64("max_body_bytes"),
	}

	AppConfig.Mail.APIKey = viper.GetString("mailjet_api_key")
	AppConfig.Mail.SecretKey = viper.GetString("mailjet_secret_key")
	AppConfig.Mail.FromEmail = viper.GetString("from_email")
	AppConfig.Mail.FromName = viper.GetString("from_name")

	AppConfig.Google.ClientID = viper.GetString("google_client_id")
	AppConfig.Google.ClientSecret = viper.GetString("google_client_secret")
	AppConfig.Google.RedirectURL = viper.GetString("google_redirect_url")

	AppConfig.CORSOrigins = corsOrigins(AppConfig.FrontendURL, viper.GetStringSlice("cors_origins"))
}

// corsOrigins puts the frontend first and drops blanks and duplicates.
// Env values arrive as one comma separated string.
func corsOrigins(frontend string, configured []string) []string {
	seen := map[string]bool{}
	var origins []string
	add := func(o string) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			return
		}
		seen[o] = true
		origins = append(origins, o)
	}
	add(frontend)
	for _, entry := range configured {
		for _, o := range strings.Split(entry, ",") {
			add(o)
		}
	}
	return origins
}

// MailEnabled reports whether Mailjet credentials and a sender address are present.
func (c Config) MailEnabled() bool {
	return c.Mail.APIKey != "" && c.Mail.SecretKey != "" && c.Mail.FromEmail != ""
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c Config) GoogleEnabled() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != ""
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if c.ConfirmationTTL <= 0 {
		return fmt.Errorf("confirmation_ttl must be positive")
	}
	if c.RateLimitPerMinute <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	return nil
}
