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
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Warehouse WarehouseConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Metrics   MetricsConfig
	Upload    UploadConfig
	Cache     CacheConfig
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

// WarehouseConfig configures the ClickHouse warehouse that the
// attribution exports are pulled from.
type WarehouseConfig struct {
	Enabled      bool
	Addr         string
	Database     string
	User         string
	Password     string
	SummaryTable string
	DailyTable   string
	QueryTimeout time.Duration
}

type AuthConfig struct {
	Enabled   bool
	MasterKey string
	SkipPaths []string
}

type RateLimitConfig struct {
	Enabled     bool
	RPS         float64
	Burst       int
	UploadRPS   float64
	UploadBurst int
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

// UploadConfig bounds CSV dataset uploads.
type UploadConfig struct {
	MaxBytes int64
}

// CacheConfig controls the Redis cache for rendered analysis payloads.
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
			User:     getEnv("VECTOR_INSIGHTS_DB_USER", "insights"),
			Password: getEnv("VECTOR_INSIGHTS_DB_PASSWORD", "insights_secret"),
			DBName:   getEnv("VECTOR_INSIGHTS_DB_NAME", "insights"),
			SSLMode:  getEnv("VECTOR_INSIGHTS_DB_SSLMODE", "disable"),
			MaxConns: getIntEnv("VECTOR_INSIGHTS_DB_MAX_CONNS", 25),
			MinConns: getIntEnv("VECTOR_INSIGHTS_DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("VECTOR_INSIGHTS_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("VECTOR_INSIGHTS_REDIS_PASSWORD", ""),
			DB:       getIntEnv("VECTOR_INSIGHTS_REDIS_DB", 0),
		},
		Warehouse: WarehouseConfig{
			Enabled:      getBoolEnv("VECTOR_INSIGHTS_WAREHOUSE_ENABLED", false),
			Addr:         getEnv("VECTOR_INSIGHTS_WAREHOUSE_ADDR", "localhost:9000"),
			Database:     getEnv("VECTOR_INSIGHTS_WAREHOUSE_DB", "appsflyer"),
			User:         getEnv("VECTOR_INSIGHTS_WAREHOUSE_USER", "default"),
			Password:     getEnv("VECTOR_INSIGHTS_WAREHOUSE_PASSWORD", ""),
			SummaryTable: getEnv("VECTOR_INSIGHTS_WAREHOUSE_SUMMARY_TABLE", "campaign_summary"),
			DailyTable:   getEnv("VECTOR_INSIGHTS_WAREHOUSE_DAILY_TABLE", "campaign_daily"),
			QueryTimeout: getDurationEnv("VECTOR_INSIGHTS_WAREHOUSE_QUERY_TIMEOUT", 60*time.Second),
		},
		Auth: AuthConfig{
			Enabled:   getBoolEnv("VECTOR_INSIGHTS_AUTH_ENABLED", true),
			MasterKey: getEnv("VECTOR_INSIGHTS_API_KEY_MASTER", ""),
			SkipPaths: getSliceEnv("VECTOR_INSIGHTS_AUTH_SKIP_PATHS", []string{"/health", "/metrics"}),
		},
		RateLimit: RateLimitConfig{
			Enabled:     getBoolEnv("VECTOR_INSIGHTS_RATE_LIMIT_ENABLED", true),
			RPS:         getFloatEnv("VECTOR_INSIGHTS_RATE_LIMIT_RPS", 100),
			Burst:       getIntEnv("VECTOR_INSIGHTS_RATE_LIMIT_BURST", 20),
			UploadRPS:   getFloatEnv("VECTOR_INSIGHTS_RATE_LIMIT_UPLOAD_RPS", 5),
			UploadBurst: getIntEnv("VECTOR_INSIGHTS_RATE_LIMIT_UPLOAD_BURST", 2),
		},
		Log: LogConfig{
			Level:  getEnv("VECTOR_INSIGHTS_LOG_LEVEL", "info"),
			Format: getEnv("VECTOR_INSIGHTS_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("VECTOR_INSIGHTS_METRICS_ENABLED", true),
			Path:    getEnv("VECTOR_INSIGHTS_METRICS_PATH", "/metrics"),
		},
		Upload: UploadConfig{
			MaxBytes: getInt64Env("VECTOR_INSIGHTS_UPLOAD_MAX_BYTES", 32<<20),
		},
		Cache: CacheConfig{
			Enabled: getBoolEnv("VECTOR_INSIGHTS_CACHE_ENABLED", true),
			TTL:     getDurationEnv("VECTOR_INSIGHTS_CACHE_TTL", 10*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Auth.Enabled && c.Auth.MasterKey == "" {
		return fmt.Errorf("VECTOR_INSIGHTS_API_KEY_MASTER is required when auth is enabled")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("VECTOR_INSIGHTS_UPLOAD_MAX_BYTES must be positive")
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

func getInt64Env(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
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
