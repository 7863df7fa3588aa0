package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nbastats/ingestion/internal/metrics"
	"nbastats/ingestion/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisCache caches upstream scoreboard responses so re-runs and the nightly
// refresh avoid re-hitting the rate-limited API for dates that can no longer
// change. The worker runs fine without it.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func scoreboardKey(season string, date time.Time) string {
	return fmt.Sprintf("nba:scoreboard:%s:%s", season, date.Format("2006-01-02"))
}

// GetScoreboard returns the cached games for a date, or ok=false on a miss.
// Errors are treated as misses; the cache is best-effort.
func (c *RedisCache) GetScoreboard(ctx context.Context, season string, date time.Time) ([]models.GameRecord, bool) {
	data, err := c.client.Get(ctx, scoreboardKey(season, date)).Bytes()
	if err == redis.Nil {
		metrics.RecordCacheMiss()
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Msg("Scoreboard cache read failed")
		metrics.RecordCacheMiss()
		return nil, false
	}

	var games []models.GameRecord
	if err := json.Unmarshal(data, &games); err != nil {
		log.Warn().Err(err).Msg("Scoreboard cache entry corrupt, ignoring")
		metrics.RecordCacheMiss()
		return nil, false
	}

	metrics.RecordCacheHit()
	return games, true
}

// SetScoreboard caches the games for a date
func (c *RedisCache) SetScoreboard(ctx context.Context, season string, date time.Time, games []models.GameRecord) {
	data, err := json.Marshal(games)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, scoreboardKey(season, date), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Scoreboard cache write failed")
	}
}
