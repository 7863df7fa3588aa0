package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "test_password")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://stats.nba.com/stats", cfg.StatsBaseURL)
	assert.Equal(t, 15*time.Second, cfg.StatsTimeout)
	assert.Equal(t, 600*time.Millisecond, cfg.RequestGap)
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.Equal(t, time.Second, cfg.RetryBaseDelay)
	assert.Equal(t, 2, cfg.RetryMultiplier)

	assert.Equal(t, 200, cfg.BatchSize)
	assert.Equal(t, 100, cfg.ExistenceThreshold)
	assert.Equal(t, 7, cfg.EmptyDateLimit)
	assert.Equal(t, 500, cfg.DedupResetGames)

	assert.False(t, cfg.EnableScheduler)
	assert.Equal(t, "0 4 * * *", cfg.NightlyRefreshCron)
	assert.Equal(t, 3, cfg.RefreshWindowDays)

	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_MissingPassword(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "secret")
	t.Setenv("INGEST_BATCH_SIZE", "50")
	t.Setenv("INGEST_EMPTY_DATE_LIMIT", "14")
	t.Setenv("NBA_STATS_REQUEST_GAP", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 14, cfg.EmptyDateLimit)
	assert.Equal(t, time.Second, cfg.RequestGap)
}

func TestValidate(t *testing.T) {
	base := Config{
		DatabasePassword:   "pw",
		BatchSize:          200,
		ExistenceThreshold: 100,
		EmptyDateLimit:     7,
	}
	assert.NoError(t, base.Validate())

	bad := base
	bad.BatchSize = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.ExistenceThreshold = -1
	assert.Error(t, bad.Validate())

	bad = base
	bad.EmptyDateLimit = 0
	assert.Error(t, bad.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := Config{
		DatabaseHost:     "db.internal",
		DatabasePort:     5433,
		DatabaseUser:     "nba_user",
		DatabasePassword: "pw",
		DatabaseName:     "nba_stats",
		DatabaseSSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=nba_user password=pw dbname=nba_stats sslmode=require",
		cfg.DatabaseDSN())
}

func TestRedisAddr(t *testing.T) {
	cfg := Config{RedisHost: "cache.internal", RedisPort: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
}
