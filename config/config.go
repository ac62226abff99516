package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/localpulse/localpulse/pkg/tracing"
)

// Config holds the full application configuration, loaded from environment
// variables with sane defaults for local development.
type Config struct {
	Environment string
	LogLevel    string

	Server        ServerConfig
	Database      DatabaseConfig
	Security      SecurityConfig
	Providers     ProvidersConfig
	ReviewSync    ReviewSyncConfig
	Notifications NotificationConfig
	Insights      InsightsConfig
	AI            AIConfig
	Tracing       tracing.Config
}

type ServerConfig struct {
	Host string
	Port int
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type SecurityConfig struct {
	// SecretKey is the passphrase used to encrypt provider tokens at rest
	// and to sign API JWTs.
	SecretKey string
}

// ProviderCredentials is the OAuth app identity for one review provider.
type ProviderCredentials struct {
	ClientID     string
	ClientSecret string
}

type ProvidersConfig struct {
	Google   ProviderCredentials
	Yelp     ProviderCredentials
	Facebook ProviderCredentials
}

type ReviewSyncConfig struct {
	// LowRatingThreshold is the rating at or below which a low-rating
	// notification fires (when instant alerts are enabled for the profile).
	LowRatingThreshold int

	// TokenSweepInterval is how often the background token refresh sweep runs.
	TokenSweepInterval time.Duration

	// TokenSweepLookahead is how far ahead of expiry the sweep refreshes
	// tokens.
	TokenSweepLookahead time.Duration
}

type NotificationConfig struct {
	FromEmail string
	FromName  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	SESRegion string

	// WebhookSigningSecret signs outgoing webhook payloads
	// (standard-webhooks format, whsec_ prefixed base64 secret).
	WebhookSigningSecret string
}

type InsightsConfig struct {
	WalkScoreAPIKey    string
	CrimeAPIEndpoint   string
	HealthAPIEndpoint  string
	TrendsAPIEndpoint  string
	CacheTTL           time.Duration
}

type AIConfig struct {
	// AnthropicAPIKey enables AI polishing of reply drafts when set.
	AnthropicAPIKey string
	Model           string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 8080)

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "localpulse")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "localpulse")
	v.SetDefault("db_sslmode", "disable")

	v.SetDefault("low_rating_threshold", 2)
	v.SetDefault("token_sweep_interval", "15m")
	v.SetDefault("token_sweep_lookahead", "30m")

	v.SetDefault("notification_from_email", "alerts@localpulse.app")
	v.SetDefault("notification_from_name", "LocalPulse Alerts")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("ses_region", "us-east-1")

	v.SetDefault("insights_cache_ttl", "1h")

	v.SetDefault("anthropic_model", "claude-sonnet-4-20250514")

	v.SetDefault("tracing_enabled", false)
	v.SetDefault("tracing_sampling_probability", 0.1)
	v.SetDefault("tracing_trace_exporter", "none")
	v.SetDefault("tracing_metrics_exporter", "none")
	v.SetDefault("tracing_service_name", "localpulse")
	v.SetDefault("tracing_prometheus_namespace", "localpulse")

	cfg := &Config{
		Environment: v.GetString("environment"),
		LogLevel:    v.GetString("log_level"),
		Server: ServerConfig{
			Host: v.GetString("server_host"),
			Port: v.GetInt("server_port"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		Security: SecurityConfig{
			SecretKey: v.GetString("secret_key"),
		},
		Providers: ProvidersConfig{
			Google: ProviderCredentials{
				ClientID:     v.GetString("google_client_id"),
				ClientSecret: v.GetString("google_client_secret"),
			},
			Yelp: ProviderCredentials{
				ClientID:     v.GetString("yelp_client_id"),
				ClientSecret: v.GetString("yelp_client_secret"),
			},
			Facebook: ProviderCredentials{
				ClientID:     v.GetString("facebook_client_id"),
				ClientSecret: v.GetString("facebook_client_secret"),
			},
		},
		ReviewSync: ReviewSyncConfig{
			LowRatingThreshold:  v.GetInt("low_rating_threshold"),
			TokenSweepInterval:  v.GetDuration("token_sweep_interval"),
			TokenSweepLookahead: v.GetDuration("token_sweep_lookahead"),
		},
		Notifications: NotificationConfig{
			FromEmail:            v.GetString("notification_from_email"),
			FromName:             v.GetString("notification_from_name"),
			SMTPHost:             v.GetString("smtp_host"),
			SMTPPort:             v.GetInt("smtp_port"),
			SMTPUsername:         v.GetString("smtp_username"),
			SMTPPassword:         v.GetString("smtp_password"),
			SESRegion:            v.GetString("ses_region"),
			WebhookSigningSecret: v.GetString("webhook_signing_secret"),
		},
		Insights: InsightsConfig{
			WalkScoreAPIKey:   v.GetString("walkscore_api_key"),
			CrimeAPIEndpoint:  v.GetString("crime_api_endpoint"),
			HealthAPIEndpoint: v.GetString("health_api_endpoint"),
			TrendsAPIEndpoint: v.GetString("trends_api_endpoint"),
			CacheTTL:          v.GetDuration("insights_cache_ttl"),
		},
		AI: AIConfig{
			AnthropicAPIKey: v.GetString("anthropic_api_key"),
			Model:           v.GetString("anthropic_model"),
		},
		Tracing: tracing.Config{
			Enabled:              v.GetBool("tracing_enabled"),
			ServiceName:          v.GetString("tracing_service_name"),
			SamplingProbability:  v.GetFloat64("tracing_sampling_probability"),
			TraceExporter:        v.GetString("tracing_trace_exporter"),
			MetricsExporter:      v.GetString("tracing_metrics_exporter"),
			JaegerEndpoint:       v.GetString("tracing_jaeger_endpoint"),
			ZipkinEndpoint:       v.GetString("tracing_zipkin_endpoint"),
			StackdriverProjectID: v.GetString("tracing_stackdriver_project_id"),
			DatadogAgentAddress:  v.GetString("tracing_datadog_agent_address"),
			PrometheusNamespace:  v.GetString("tracing_prometheus_namespace"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.Security.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if len(c.Security.SecretKey) < 16 {
		return fmt.Errorf("SECRET_KEY must be at least 16 characters")
	}
	if c.ReviewSync.LowRatingThreshold < 1 || c.ReviewSync.LowRatingThreshold > 5 {
		return fmt.Errorf("LOW_RATING_THRESHOLD must be between 1 and 5")
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
