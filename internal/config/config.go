// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Notification backends understood by NOTIFICATION_BACKEND.
const (
	NotificationBackendSNS  = "sns"
	NotificationBackendNSQ  = "nsq"
	NotificationBackendNone = "none"
)

// Sources for the user name registered with the identity provider.
const (
	UsernameSourceUserName = "userName"
	UsernameSourceEmail    = "email"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// AWS / Cognito
	AWSRegion         string `mapstructure:"AWS_REGION"`
	AWSEndpointURL    string `mapstructure:"AWS_ENDPOINT_URL"`
	CognitoClientID   string `mapstructure:"COGNITO_CLIENT_ID"`
	CognitoUserPoolID string `mapstructure:"COGNITO_USER_POOL_ID"`

	// Profile attribute names
	AddressAttribute    string `mapstructure:"ADDRESS_ATTRIBUTE"`
	NationalIDAttribute string `mapstructure:"NATIONAL_ID_ATTRIBUTE"`

	// Handler behaviour
	ExposeErrorDetails         bool   `mapstructure:"EXPOSE_ERROR_DETAILS"`
	RegistrationUsernameSource string `mapstructure:"REGISTRATION_USERNAME_SOURCE"`

	// Notification
	NotificationBackend string `mapstructure:"NOTIFICATION_BACKEND"`
	NotificationTopic   string `mapstructure:"NOTIFICATION_TOPIC"`
	NSQDAddress         string `mapstructure:"NSQD_ADDRESS"`

	// Database Configuration (registration ledger)
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	DBSource          string        `mapstructure:"DB_SOURCE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	// Cron Jobs
	LedgerRetentionDays     int    `mapstructure:"LEDGER_RETENTION_DAYS"`
	LedgerRetentionSchedule string `mapstructure:"LEDGER_RETENTION_SCHEDULE"`
}

// NotificationsEnabled reports whether the registrar publishes and subscribes on signup.
func (c *Config) NotificationsEnabled() bool {
	return c.NotificationBackend != "" && c.NotificationBackend != NotificationBackendNone
}

// LedgerEnabled reports whether a database is configured for the registration ledger.
func (c *Config) LedgerEnabled() bool {
	return c.DBDriver != ""
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ENDPOINT_URL", "")
	v.SetDefault("COGNITO_CLIENT_ID", "")
	v.SetDefault("COGNITO_USER_POOL_ID", "")

	v.SetDefault("ADDRESS_ATTRIBUTE", "custom:endereco")
	v.SetDefault("NATIONAL_ID_ATTRIBUTE", "custom:cpf")

	v.SetDefault("EXPOSE_ERROR_DETAILS", false)
	v.SetDefault("REGISTRATION_USERNAME_SOURCE", UsernameSourceUserName)

	v.SetDefault("NOTIFICATION_BACKEND", NotificationBackendSNS)
	v.SetDefault("NOTIFICATION_TOPIC", "")
	v.SetDefault("NSQD_ADDRESS", "127.0.0.1:4150")

	v.SetDefault("DB_DRIVER", "")
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30)

	v.SetDefault("LEDGER_RETENTION_DAYS", 90)
	v.SetDefault("LEDGER_RETENTION_SCHEDULE", "@daily")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute

	// SNS_TOPIC_ARN is the name older deployments used for the topic.
	if cfg.NotificationTopic == "" {
		cfg.NotificationTopic = os.Getenv("SNS_TOPIC_ARN")
	}

	cfg.NotificationBackend = strings.ToLower(strings.TrimSpace(cfg.NotificationBackend))
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every entry point needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.CognitoClientID) == "" {
		return fmt.Errorf("COGNITO_CLIENT_ID is not set")
	}

	switch c.RegistrationUsernameSource {
	case UsernameSourceUserName, UsernameSourceEmail:
	default:
		return fmt.Errorf("unknown REGISTRATION_USERNAME_SOURCE %q", c.RegistrationUsernameSource)
	}

	switch c.DBDriver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDriver != "" && strings.TrimSpace(c.DBSource) == "" {
		return fmt.Errorf("DB_SOURCE is required when DB_DRIVER is set")
	}
	return nil
}

// ValidateRegistrar checks the extra settings the registrar needs: the user pool
// and, unless notifications are disabled, a known backend and its topic.
func (c *Config) ValidateRegistrar() error {
	if strings.TrimSpace(c.CognitoUserPoolID) == "" {
		return fmt.Errorf("COGNITO_USER_POOL_ID is not set")
	}

	switch c.NotificationBackend {
	case "", NotificationBackendNone:
	case NotificationBackendSNS, NotificationBackendNSQ:
		if strings.TrimSpace(c.NotificationTopic) == "" {
			return fmt.Errorf("NOTIFICATION_TOPIC is required when NOTIFICATION_BACKEND=%s", c.NotificationBackend)
		}
	default:
		return fmt.Errorf("unknown NOTIFICATION_BACKEND %q", c.NotificationBackend)
	}
	return nil
}
