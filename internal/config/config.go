package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/newsletter/newsletter/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Log         LogConfig         `mapstructure:"log"`
	Application ApplicationConfig `mapstructure:"application"`
	Email       EmailConfig       `mapstructure:"email"`
	Security    SecurityConfig    `mapstructure:"security"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// URL returns the connection string in URL form, as expected by golang-migrate
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ApplicationConfig holds settings about the public-facing application
type ApplicationConfig struct {
	// BaseURL is the externally reachable URL used to build links in emails
	BaseURL string `mapstructure:"base_url"`
}

// EmailConfig holds email sending configuration
type EmailConfig struct {
	// Provider is the email provider to use: "postmark" or "gmail"
	Provider string `mapstructure:"provider"`
	// SenderAddress is the "From" email address
	SenderAddress string `mapstructure:"sender_address"`
	// SenderName is the display name for the sender (gmail only)
	SenderName string `mapstructure:"sender_name"`
	// Postmark holds configuration for the Postmark-compatible HTTP API
	Postmark PostmarkEmailConfig `mapstructure:"postmark"`
	// Gmail holds Gmail-specific configuration
	Gmail GmailEmailConfig `mapstructure:"gmail"`
}

// PostmarkEmailConfig holds the transactional email API settings
type PostmarkEmailConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	ServerToken string        `mapstructure:"server_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// GmailEmailConfig holds Gmail API configuration
type GmailEmailConfig struct {
	// CredentialsJSON is the service account credentials JSON content
	CredentialsJSON string `mapstructure:"credentials_json"`
	// ClientID for OAuth2 token-based auth (alternative to service account)
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RefreshToken string        `mapstructure:"refresh_token"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	RateLimiting RateLimitingConfig `mapstructure:"rate_limiting"`
}

// RateLimitingConfig holds rate limiting configuration
type RateLimitingConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	SubscribeLimit  int           `mapstructure:"subscribe_limit"`
	SubscribeWindow time.Duration `mapstructure:"subscribe_window"`
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Exporter    string `mapstructure:"exporter"`
	ServiceName string `mapstructure:"service_name"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	// A .env file is a convenience for local development only
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/newsletter")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("NEWSLETTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that would otherwise only fail on the first request
func (c *Config) Validate() error {
	switch c.Email.Provider {
	case "postmark":
		if c.Email.Postmark.BaseURL == "" {
			return fmt.Errorf("invalid config: email.postmark.base_url is required")
		}
		if c.Email.Postmark.Timeout <= 0 {
			return fmt.Errorf("invalid config: email.postmark.timeout must be positive")
		}
	case "gmail":
		if c.Email.Gmail.Timeout <= 0 {
			return fmt.Errorf("invalid config: email.gmail.timeout must be positive")
		}
	default:
		return fmt.Errorf("invalid config: unknown email provider %q", c.Email.Provider)
	}

	// Same rule the server applies when it builds the sender
	if _, err := domain.ParseSubscriberEmail(c.Email.SenderAddress); err != nil {
		return fmt.Errorf("invalid config: email.sender_address: %w", err)
	}

	if c.Security.RateLimiting.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("invalid config: rate limiting requires redis.enabled")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "newsletter")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 25)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("application.base_url", "http://127.0.0.1:8000")

	// Email defaults
	v.SetDefault("email.provider", "postmark")
	v.SetDefault("email.sender_address", "newsletter@localhost.localdomain")
	v.SetDefault("email.sender_name", "Newsletter")
	v.SetDefault("email.postmark.base_url", "https://api.postmarkapp.com")
	v.SetDefault("email.postmark.server_token", "")
	v.SetDefault("email.postmark.timeout", "10s")
	v.SetDefault("email.gmail.credentials_json", "")
	v.SetDefault("email.gmail.client_id", "")
	v.SetDefault("email.gmail.client_secret", "")
	v.SetDefault("email.gmail.refresh_token", "")
	v.SetDefault("email.gmail.timeout", "10s")

	// Security defaults
	v.SetDefault("security.rate_limiting.enabled", false)
	v.SetDefault("security.rate_limiting.subscribe_limit", 5)
	v.SetDefault("security.rate_limiting.subscribe_window", "1h")

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", "stdout")
	v.SetDefault("tracing.service_name", "newsletter")
}
