package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// NBA stats API
	StatsBaseURL      string        `envconfig:"NBA_STATS_BASE_URL" default:"https://stats.nba.com/stats"`
	StatsTimeout      time.Duration `envconfig:"NBA_STATS_TIMEOUT" default:"15s"`
	RequestGap        time.Duration `envconfig:"NBA_STATS_REQUEST_GAP" default:"600ms"`
	RetryMaxAttempts  int           `envconfig:"NBA_STATS_RETRY_MAX_ATTEMPTS" default:"3"`
	RetryBaseDelay    time.Duration `envconfig:"NBA_STATS_RETRY_BASE_DELAY" default:"1s"`
	RetryMultiplier   int           `envconfig:"NBA_STATS_RETRY_MULTIPLIER" default:"2"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"nba_stats"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"nba_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Scoreboard cache TTL for completed dates
	CacheTTLScoreboard time.Duration `envconfig:"CACHE_TTL_SCOREBOARD" default:"168h"`

	// Ingestion
	BatchSize           int `envconfig:"INGEST_BATCH_SIZE" default:"200"`
	ExistenceThreshold  int `envconfig:"INGEST_EXISTENCE_THRESHOLD" default:"100"`
	EmptyDateLimit      int `envconfig:"INGEST_EMPTY_DATE_LIMIT" default:"7"`
	DedupResetGames     int `envconfig:"INGEST_DEDUP_RESET_GAMES" default:"500"`

	// Scheduler
	EnableScheduler    bool   `envconfig:"ENABLE_SCHEDULER" default:"false"`
	NightlyRefreshCron string `envconfig:"NIGHTLY_REFRESH_CRON" default:"0 4 * * *"`
	RefreshWindowDays  int    `envconfig:"REFRESH_WINDOW_DAYS" default:"3"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables.
// It first attempts to load from .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("INGEST_BATCH_SIZE must be positive")
	}
	if c.ExistenceThreshold < 0 {
		return fmt.Errorf("INGEST_EXISTENCE_THRESHOLD must not be negative")
	}
	if c.EmptyDateLimit <= 0 {
		return fmt.Errorf("INGEST_EMPTY_DATE_LIMIT must be positive")
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
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

// MustLoad loads configuration or exits on error.
// Use this in main() where we want to fail fast.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
