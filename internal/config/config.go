package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DatabaseConfig PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Config duulair backend configuration, shared by the report service and the
// daily aggregator.
type Config struct {
	HTTP struct {
		ReportAddr     string
		AggregatorAddr string
	}

	Database DatabaseConfig

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	// LINE platform settings for access-token verification.
	Line struct {
		APIBaseURL string
		ChannelID  string
		Timeout    time.Duration
	}

	// Report rate limits per caller, rolling one-hour window.
	RateLimit struct {
		ViewPerHour   int
		ExportPerHour int
		Window        time.Duration
	}

	Aggregator struct {
		// Timezone offset in seconds for the aggregation day window.
		// Patients log in Thailand local time, so the default is UTC+7.
		TimezoneOffset int

		// TTL for the cached per-patient water goal.
		WaterGoalCacheTTL time.Duration
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	cfg := &Config{}

	cfg.HTTP.ReportAddr = getEnv("REPORT_HTTP_ADDR", ":8080")
	cfg.HTTP.AggregatorAddr = getEnv("AGGREGATOR_HTTP_ADDR", ":8081")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "duulair")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Line.APIBaseURL = getEnv("LINE_API_BASE_URL", "https://api.line.me")
	cfg.Line.ChannelID = getEnv("LINE_CHANNEL_ID", "")
	cfg.Line.Timeout = time.Duration(parseInt(getEnv("LINE_TIMEOUT_SECONDS", "10"), 10)) * time.Second

	cfg.RateLimit.ViewPerHour = parseInt(getEnv("RATE_LIMIT_VIEW_PER_HOUR", "100"), 100)
	cfg.RateLimit.ExportPerHour = parseInt(getEnv("RATE_LIMIT_EXPORT_PER_HOUR", "10"), 10)
	cfg.RateLimit.Window = time.Hour

	// 25200 = UTC+7 (Asia/Bangkok)
	cfg.Aggregator.TimezoneOffset = parseInt(getEnv("AGGREGATION_TIMEZONE_OFFSET", "25200"), 25200)
	cfg.Aggregator.WaterGoalCacheTTL = time.Duration(parseInt(getEnv("WATER_GOAL_CACHE_TTL_SECONDS", "3600"), 3600)) * time.Second

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
