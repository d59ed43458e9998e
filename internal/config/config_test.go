package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, ":8080", cfg.HTTP.ReportAddr)
	require.Equal(t, ":8081", cfg.HTTP.AggregatorAddr)

	require.Equal(t, "localhost", cfg.Database.Host)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, "duulair", cfg.Database.Database)

	require.Equal(t, "https://api.line.me", cfg.Line.APIBaseURL)
	require.Equal(t, 10*time.Second, cfg.Line.Timeout)

	require.Equal(t, 100, cfg.RateLimit.ViewPerHour)
	require.Equal(t, 10, cfg.RateLimit.ExportPerHour)
	require.Equal(t, time.Hour, cfg.RateLimit.Window)

	require.Equal(t, 25200, cfg.Aggregator.TimezoneOffset) // UTC+7
	require.Equal(t, time.Hour, cfg.Aggregator.WaterGoalCacheTTL)

	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("REPORT_HTTP_ADDR", ":9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("LINE_CHANNEL_ID", "1234567890")
	t.Setenv("RATE_LIMIT_VIEW_PER_HOUR", "5")
	t.Setenv("AGGREGATION_TIMEZONE_OFFSET", "0")
	t.Setenv("WATER_GOAL_CACHE_TTL_SECONDS", "60")

	cfg := Load()

	require.Equal(t, ":9090", cfg.HTTP.ReportAddr)
	require.Equal(t, "db.internal", cfg.Database.Host)
	require.Equal(t, 5433, cfg.Database.Port)
	require.Equal(t, "1234567890", cfg.Line.ChannelID)
	require.Equal(t, 5, cfg.RateLimit.ViewPerHour)
	require.Equal(t, 0, cfg.Aggregator.TimezoneOffset)
	require.Equal(t, time.Minute, cfg.Aggregator.WaterGoalCacheTTL)
}

func TestLoadIgnoresGarbageNumbers(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	cfg := Load()
	require.Equal(t, 5432, cfg.Database.Port)
}

func TestGetDSN(t *testing.T) {
	c := &DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "report",
		Password: "secret",
		Database: "duulair",
		SSLMode:  "require",
	}
	require.Equal(t,
		"host=db.internal port=5433 user=report password=secret dbname=duulair sslmode=require",
		c.GetDSN(),
	)
}
