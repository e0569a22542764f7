// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/classificacaofinal/classificacao/internal/config"
	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/logging"
	"github.com/classificacaofinal/classificacao/internal/mail"
	"github.com/classificacaofinal/classificacao/internal/oauth"
	"github.com/classificacaofinal/classificacao/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var databasePath string
var logLevel string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "classificacao",
	Short: "Public exam classification lists and candidate lookup",
	Long: `Classificação stores the result lists of public exams ("concursos"),
serves them over an HTTP API and finds candidates across contests,
reporting whether they were already appointed elsewhere.`,
	SilenceUsage: true,
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Start the HTTP API used by the web frontend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.AppConfig.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		// Initialize database
		if err := database.InitializeStore(config.AppConfig.DatabasePath); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		logging.Log.Infof("Using database: %s", config.AppConfig.DatabasePath)

		srv := server.NewServer(server.OptionsFromConfig(
			config.AppConfig,
			database.GlobalStore,
			newMailSender(config.AppConfig),
			newIdentityProvider(config.AppConfig),
		))

		cfg := server.GetDefaultServerConfig()
		cfg.Host = config.AppConfig.Host
		cfg.Port = fmt.Sprintf("%d", config.AppConfig.Port)

		// Override with command line flags if provided
		if cmd.Flags().Changed("port") {
			cfg.Port = cmd.Flag("port").Value.String()
		}
		if cmd.Flags().Changed("host") {
			cfg.Host = cmd.Flag("host").Value.String()
		}
		if rt := cmd.Flag("read-timeout").Value.String(); rt != "" {
			if d, err := time.ParseDuration(rt); err == nil {
				cfg.ReadTimeout = d
			}
		}
		if wt := cmd.Flag("write-timeout").Value.String(); wt != "" {
			if d, err := time.ParseDuration(wt); err == nil {
				cfg.WriteTimeout = d
			}
		}
		if it := cmd.Flag("idle-timeout").Value.String(); it != "" {
			if d, err := time.ParseDuration(it); err == nil {
				cfg.IdleTimeout = d
			}
		}

		return srv.Start(cfg)
	},
}

// newMailSender returns the Mailjet sender when credentials are configured.
func newMailSender(cfg config.Config) mail.Sender {
	if !cfg.MailEnabled() {
		logging.Log.Warn("Mailjet credentials missing, confirmation emails are disabled")
		return mail.DisabledSender{FrontendURL: cfg.FrontendURL}
	}
	return mail.NewMailjetSender(mail.MailjetConfig{
		APIKey:      cfg.Mail.APIKey,
		SecretKey:   cfg.Mail.SecretKey,
		FromEmail:   cfg.Mail.FromEmail,
		FromName:    cfg.Mail.FromName,
		FrontendURL: cfg.FrontendURL,
	})
}

// newIdentityProvider returns nil when Google sign-in is not configured.
func newIdentityProvider(cfg config.Config) oauth.IdentityProvider {
	if !cfg.GoogleEnabled() {
		logging.Log.Info("Google credentials missing, Google sign-in is disabled")
		return nil
	}
	return oauth.NewGoogleProvider(oauth.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
	})
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.classificacao.yaml)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "classificacao.db", "path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(diagnosticsCmd)

	// Add serve command specific flags
	serveCmd.Flags().String("port", "8000", "port to run the web server on")
	serveCmd.Flags().String("host", "0.0.0.0", "host to bind the web server to")
	serveCmd.Flags().String("read-timeout", "15s", "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("write-timeout", "15s", "write timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("idle-timeout", "60s", "idle timeout (e.g. 60s, 2m)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".classificacao")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logging.Log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}

	config.InitConfig()
	logging.SetLogLevel(config.AppConfig.LogLevel)

	// Ensure database directory exists
	if dbDir := filepath.Dir(config.AppConfig.DatabasePath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logging.Log.WithError(err).Warn("failed to create database directory")
		}
	}
}

// withStore opens the configured database for the duration of fn.
func withStore(fn func(store database.Store) error) error {
	if err := database.InitializeStore(config.AppConfig.DatabasePath); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.CloseStore()
	return fn(database.GlobalStore)
}
