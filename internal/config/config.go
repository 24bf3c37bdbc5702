package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/pkg/secret"
)

// EnvPrefix is prepended to every environment override, e.g.
// APP_DATABASE_PASSWORD or APP_EMAIL_CLIENT_AUTHORIZATION_TOKEN.
const EnvPrefix = "APP_"

// Email providers understood by EmailClientSettings.Provider.
const (
	ProviderHTTP = "http"
	ProviderSES  = "ses"
	ProviderNone = "none"
)

// Settings holds all configuration for the application
type Settings struct {
	Application ApplicationSettings `yaml:"application" envPrefix:"APPLICATION_"`
	Database    DatabaseSettings    `yaml:"database" envPrefix:"DATABASE_"`
	EmailClient EmailClientSettings `yaml:"email_client" envPrefix:"EMAIL_CLIENT_"`
	Welcome     WelcomeSettings     `yaml:"welcome" envPrefix:"WELCOME_"`
	Log         LogSettings         `yaml:"log" envPrefix:"LOG_"`
	Telemetry   TelemetrySettings   `yaml:"telemetry" envPrefix:"TELEMETRY_"`
	CORS        CORSSettings        `yaml:"cors" envPrefix:"CORS_"`
}

// ApplicationSettings holds HTTP listener configuration
type ApplicationSettings struct {
	Host string `yaml:"host" env:"HOST"`
	Port int    `yaml:"port" env:"PORT"`
}

// Address returns host:port for the HTTP listener.
func (c ApplicationSettings) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DatabaseSettings holds PostgreSQL connection and pool configuration
type DatabaseSettings struct {
	Username               string        `yaml:"username" env:"USERNAME"`
	Password               secret.String `yaml:"password" env:"PASSWORD"`
	Host                   string        `yaml:"host" env:"HOST"`
	Port                   int           `yaml:"port" env:"PORT"`
	DatabaseName           string        `yaml:"database_name" env:"NAME"`
	RequireSSL             bool          `yaml:"require_ssl" env:"REQUIRE_SSL"`
	MaxOpenConns           int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns           int           `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetimeSeconds int           `yaml:"conn_max_lifetime_seconds" env:"CONN_MAX_LIFETIME_SECONDS"`
	QueryTimeoutSeconds    int           `yaml:"query_timeout_seconds" env:"QUERY_TIMEOUT_SECONDS"`
}

// ConnectionString returns the DSN for the configured database.
func (c DatabaseSettings) ConnectionString() secret.String {
	u := c.baseURL()
	u.Path = "/" + c.DatabaseName
	return secret.New(u.String())
}

// ConnectionStringWithoutDB returns a DSN pointing at the server only, used to
// provision scratch databases.
func (c DatabaseSettings) ConnectionStringWithoutDB() secret.String {
	return secret.New(c.baseURL().String())
}

func (c DatabaseSettings) baseURL() *url.URL {
	sslMode := "disable"
	if c.RequireSSL {
		sslMode = "require"
	}
	return &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password.Expose()),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
}

// ConnMaxLifetime returns the pool connection lifetime as a duration
func (c DatabaseSettings) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeSeconds) * time.Second
}

// QueryTimeout returns the per-statement timeout as a duration
func (c DatabaseSettings) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// EmailClientSettings configures the transactional email provider
type EmailClientSettings struct {
	Provider            string        `yaml:"provider" env:"PROVIDER"`
	BaseURL             string        `yaml:"base_url" env:"BASE_URL"`
	SenderEmail         string        `yaml:"sender_email" env:"SENDER_EMAIL"`
	AuthorizationToken  secret.String `yaml:"authorization_token" env:"AUTHORIZATION_TOKEN"`
	TimeoutMilliseconds int           `yaml:"timeout_milliseconds" env:"TIMEOUT_MILLISECONDS"`
	SES                 SESSettings   `yaml:"ses" envPrefix:"SES_"`
}

// Sender parses the configured sender address.
func (c EmailClientSettings) Sender() (domain.SubscriberEmail, error) {
	return domain.ParseSubscriberEmail(c.SenderEmail)
}

// Timeout returns the configured timeout as a duration
func (c EmailClientSettings) Timeout() time.Duration {
	return time.Duration(c.TimeoutMilliseconds) * time.Millisecond
}

// SESSettings holds AWS SES credentials. Empty keys fall back to the default
// AWS credential chain.
type SESSettings struct {
	Region    string        `yaml:"region" env:"REGION"`
	AccessKey string        `yaml:"access_key" env:"ACCESS_KEY"`
	SecretKey secret.String `yaml:"secret_key" env:"SECRET_KEY"`
}

// WelcomeSettings controls the post-registration notification
type WelcomeSettings struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Subject string `yaml:"subject" env:"SUBJECT"`
}

// LogSettings controls the process logger
type LogSettings struct {
	Level     string `yaml:"level" env:"LEVEL"`
	Format    string `yaml:"format" env:"FORMAT"`
	RedactPII bool   `yaml:"redact_pii" env:"REDACT_PII"`
}

// TelemetrySettings controls OpenTelemetry tracing. Tracing is disabled when
// OTLPEndpoint is empty.
type TelemetrySettings struct {
	ServiceName  string `yaml:"service_name" env:"SERVICE_NAME"`
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
}

// CORSSettings lists browser origins allowed to post the signup form.
type CORSSettings struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
}

// Load reads and parses the configuration file
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Settings{
		// Redaction is on unless the file turns it off.
		Log: LogSettings{RedactPII: true},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so secrets can
// live in .env locally and in real env vars in production.
func LoadFromEnv(path string) (*Settings, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Env may have cleared or zeroed values; re-apply defaults.
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Settings) {
	if cfg.Application.Host == "" {
		cfg.Application.Host = "127.0.0.1"
	}
	if cfg.Application.Port == 0 {
		cfg.Application.Port = 8000
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.DatabaseName == "" {
		cfg.Database.DatabaseName = "newsletter"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 3
	}
	if cfg.Database.ConnMaxLifetimeSeconds == 0 {
		cfg.Database.ConnMaxLifetimeSeconds = 300
	}
	if cfg.Database.QueryTimeoutSeconds == 0 {
		cfg.Database.QueryTimeoutSeconds = 5
	}
	if cfg.EmailClient.Provider == "" {
		cfg.EmailClient.Provider = ProviderHTTP
	}
	if cfg.EmailClient.TimeoutMilliseconds == 0 {
		cfg.EmailClient.TimeoutMilliseconds = 10000
	}
	if cfg.EmailClient.SES.Region == "" {
		cfg.EmailClient.SES.Region = "us-east-1"
	}
	if cfg.Welcome.Subject == "" {
		cfg.Welcome.Subject = "Welcome to our newsletter!"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "newsletter"
	}
}

// Validate checks the settings that the server cannot start without.
func (s *Settings) Validate() error {
	switch s.EmailClient.Provider {
	case ProviderHTTP:
		if s.EmailClient.BaseURL == "" {
			return fmt.Errorf("email_client.base_url is required for provider %q", ProviderHTTP)
		}
		if s.EmailClient.AuthorizationToken.IsEmpty() {
			return fmt.Errorf("email_client.authorization_token is required for provider %q", ProviderHTTP)
		}
	case ProviderSES, ProviderNone:
	default:
		return fmt.Errorf("unknown email_client.provider %q", s.EmailClient.Provider)
	}
	if s.EmailClient.Provider != ProviderNone {
		if _, err := s.EmailClient.Sender(); err != nil {
			return fmt.Errorf("email_client.sender_email: %w", err)
		}
	}
	return nil
}
