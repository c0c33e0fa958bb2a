package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the Vector-Insights application.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	ClickHouse ClickHouseConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
	Metrics    MetricsConfig
	Analytics  AnalyticsConfig
	Cache      CacheConfig
}

type ServerConfig struct {
	Addr            string
	Env             string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ClickHouseConfig configures the tracking archive warehouse.
type ClickHouseConfig struct {
	Enabled  bool
	Addr     string
	Database string
	User     string
	Password string
	MaxConns int
}

type AuthConfig struct {
	Enabled   bool
	MasterKey string
	SkipPaths []string
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// AnalyticsConfig carries the engine's benchmark and estimation constants.
type AnalyticsConfig struct {
	// BenchmarkROI is the target ROI percentage (deltas are computed
	// against it).
	BenchmarkROI float64
	// BenchmarkROAS is the target return-on-ad-spend ratio.
	BenchmarkROAS float64
	// CostRatio estimates cost as this fraction of revenue when payout
	// data is unavailable.
	CostRatio float64
	// BaselineDays is the incremental-ROAS window split.
	BaselineDays int
	// TopLimit is the default ranking cutoff.
	TopLimit int
}

// CacheConfig configures the Redis insight-report cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("VECTOR_INSIGHTS_HTTP_ADDR", ":8080"),
			Env:             getEnv("VECTOR_INSIGHTS_ENV", "development"),
			ShutdownTimeout: getDurationEnv("VECTOR_INSIGHTS_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("VECTOR_INSIGHTS_DB_HOST", "localhost"),
			Port:     getIntEnv("VECTOR_INSIGHTS_DB_PORT", 5432),
			User:     getEnv("VECTOR_INSIGHTS_DB_USER", "vectorinsights"),
			Password: getEnv("VECTOR_INSIGHTS_DB_PASSWORD", "vectorinsights_secret"),
			DBName:   getEnv("VECTOR_INSIGHTS_DB_NAME", "vectorinsights"),
			SSLMode:  getEnv("VECTOR_INSIGHTS_DB_SSLMODE", "disable"),
			MaxConns: getIntEnv("VECTOR_INSIGHTS_DB_MAX_CONNS", 25),
			MinConns: getIntEnv("VECTOR_INSIGHTS_DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("VECTOR_INSIGHTS_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("VECTOR_INSIGHTS_REDIS_PASSWORD", ""),
			DB:       getIntEnv("VECTOR_INSIGHTS_REDIS_DB", 0),
		},
		ClickHouse: ClickHouseConfig{
			Enabled:  getBoolEnv("VECTOR_INSIGHTS_CLICKHOUSE_ENABLED", false),
			Addr:     getEnv("VECTOR_INSIGHTS_CLICKHOUSE_ADDR", "localhost:9000"),
			Database: getEnv("VECTOR_INSIGHTS_CLICKHOUSE_DB", "vectorinsights"),
			User:     getEnv("VECTOR_INSIGHTS_CLICKHOUSE_USER", "default"),
			Password: getEnv("VECTOR_INSIGHTS_CLICKHOUSE_PASSWORD", ""),
			MaxConns: getIntEnv("VECTOR_INSIGHTS_CLICKHOUSE_MAX_CONNS", 5),
		},
		Auth: AuthConfig{
			Enabled:   getBoolEnv("VECTOR_INSIGHTS_AUTH_ENABLED", true),
			MasterKey: getEnv("VECTOR_INSIGHTS_API_KEY_MASTER", ""),
			SkipPaths: getSliceEnv("VECTOR_INSIGHTS_AUTH_SKIP_PATHS", []string{"/health", "/metrics"}),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBoolEnv("VECTOR_INSIGHTS_RATE_LIMIT_ENABLED", true),
			RPS:     getFloatEnv("VECTOR_INSIGHTS_RATE_LIMIT_RPS", 100),
			Burst:   getIntEnv("VECTOR_INSIGHTS_RATE_LIMIT_BURST", 20),
		},
		Log: LogConfig{
			Level:  getEnv("VECTOR_INSIGHTS_LOG_LEVEL", "info"),
			Format: getEnv("VECTOR_INSIGHTS_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("VECTOR_INSIGHTS_METRICS_ENABLED", true),
			Path:    getEnv("VECTOR_INSIGHTS_METRICS_PATH", "/metrics"),
		},
		Analytics: AnalyticsConfig{
			BenchmarkROI:  getFloatEnv("VECTOR_INSIGHTS_BENCHMARK_ROI", 200),
			BenchmarkROAS: getFloatEnv("VECTOR_INSIGHTS_BENCHMARK_ROAS", 4.0),
			CostRatio:     getFloatEnv("VECTOR_INSIGHTS_COST_RATIO", 0.25),
			BaselineDays:  getIntEnv("VECTOR_INSIGHTS_BASELINE_DAYS", 30),
			TopLimit:      getIntEnv("VECTOR_INSIGHTS_TOP_LIMIT", 10),
		},
		Cache: CacheConfig{
			Enabled: getBoolEnv("VECTOR_INSIGHTS_CACHE_ENABLED", true),
			TTL:     getDurationEnv("VECTOR_INSIGHTS_CACHE_TTL", 5*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present and sane.
func (c *Config) Validate() error {
	if c.Auth.Enabled && c.Auth.MasterKey == "" {
		return fmt.Errorf("VECTOR_INSIGHTS_API_KEY_MASTER is required when auth is enabled")
	}
	if c.Analytics.CostRatio <= 0 || c.Analytics.CostRatio >= 1 {
		return fmt.Errorf("VECTOR_INSIGHTS_COST_RATIO must be in (0, 1)")
	}
	if c.Analytics.BaselineDays <= 0 {
		return fmt.Errorf("VECTOR_INSIGHTS_BASELINE_DAYS must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions for reading environment variables

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getFloatEnv(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getSliceEnv(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		return result
	}
	return def
}
