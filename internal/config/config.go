package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// API-Football provider
	APIFootballKey      string        `envconfig:"APIFOOTBALL_API_KEY"`
	APIFootballBaseURL  string        `envconfig:"APIFOOTBALL_BASE_URL" default:"https://v3.football.api-sports.io"`
	ProviderTimeout     time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"10s"`
	ProviderMaxAttempts int           `envconfig:"PROVIDER_MAX_ATTEMPTS" default:"5"`
	ProviderCallDelay   time.Duration `envconfig:"PROVIDER_CALL_DELAY" default:"1500ms"`

	// Database
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"oddins"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"oddins_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis (optional response cache)
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Sync windows
	FixtureWindowPastDays   int `envconfig:"FIXTURE_WINDOW_PAST_DAYS" default:"2"`
	FixtureWindowFutureDays int `envconfig:"FIXTURE_WINDOW_FUTURE_DAYS" default:"7"`
	MatchRetentionDays      int `envconfig:"MATCH_RETENTION_DAYS" default:"7"`

	// Scheduler (all cron expressions are evaluated in UTC)
	EnableScheduler   bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	FixtureWindowCron string `envconfig:"FIXTURE_WINDOW_CRON" default:"0 * * * *"`
	OddsRefreshCron   string `envconfig:"ODDS_REFRESH_CRON" default:"30 * * * *"`
	PredictionsCron   string `envconfig:"PREDICTIONS_CRON" default:"45 * * * *"`
	CleanupCron       string `envconfig:"CLEANUP_CRON" default:"0 3 * * *"`

	// Caching TTL for provider responses (seconds, 0 disables)
	CacheTTLProvider int `envconfig:"CACHE_TTL_PROVIDER" default:"120"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if present
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration, collecting every missing required
// variable so the operator sees the full list at once.
func (c *Config) Validate() error {
	var missing []string

	if c.APIFootballKey == "" {
		missing = append(missing, "APIFOOTBALL_API_KEY")
	}
	if c.DatabaseURL == "" && c.DatabasePassword == "" {
		missing = append(missing, "DATABASE_URL or DATABASE_PASSWORD")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.ProviderMaxAttempts < 1 {
		return fmt.Errorf("PROVIDER_MAX_ATTEMPTS must be at least 1")
	}
	if c.MatchRetentionDays < 1 {
		return fmt.Errorf("MATCH_RETENTION_DAYS must be at least 1")
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string. An explicit
// DATABASE_URL wins over the discrete components.
func (c *Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or exits on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
