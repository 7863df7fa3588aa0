package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nbastats/ingestion/internal/cache"
	"nbastats/ingestion/internal/client"
	"nbastats/ingestion/internal/config"
	"nbastats/ingestion/internal/ingest"
	"nbastats/ingestion/internal/metrics"
	"nbastats/ingestion/internal/models"
	"nbastats/ingestion/internal/repository"
	"nbastats/ingestion/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.MustLoad()
	setupLogger(cfg)

	season := models.CurrentSeason(time.Now())
	if len(os.Args) > 1 {
		season = os.Args[1]
	}

	log.Info().
		Str("season", season).
		Str("env", cfg.AppEnv).
		Msg("Starting NBA stats ingestion worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     fmt.Sprintf("%d", cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Redis is optional; the worker runs without the scoreboard cache
	var scoreboardCache ingest.ScoreboardCache
	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     fmt.Sprintf("%d", cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTLScoreboard,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, continuing without scoreboard cache")
	} else {
		defer redisCache.Close()
		scoreboardCache = redisCache
	}

	if cfg.EnableMetrics {
		go serveMetrics(cfg.MetricsPort, db)
	}
	go trackUptime()

	api := client.NewClient(
		cfg.StatsBaseURL,
		cfg.StatsTimeout,
		client.WithRequestGap(cfg.RequestGap),
		client.WithRetryPolicy(client.RetryPolicy{
			MaxAttempts: cfg.RetryMaxAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
			Multiplier:  cfg.RetryMultiplier,
		}),
	)

	runner := ingest.NewRunner(api, ingest.StoresFor(db), scoreboardCache, ingest.Config{
		BatchSize:          cfg.BatchSize,
		ExistenceThreshold: cfg.ExistenceThreshold,
		EmptyDateLimit:     cfg.EmptyDateLimit,
		DedupResetGames:    cfg.DedupResetGames,
	})

	summary, err := runner.Run(ctx, season)
	if err != nil {
		log.Fatal().Err(err).Msg("Ingestion run failed")
	}

	log.Info().
		Int("box_scores_inserted", summary.BoxScoresInserted).
		Int("duplicates_skipped", summary.DuplicatesSkipped).
		Msg("Season ingestion finished")

	if !cfg.EnableScheduler {
		return
	}

	sched := scheduler.New(runner, cfg.NightlyRefreshCron, cfg.RefreshWindowDays)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer sched.Stop()

	log.Info().Msg("Worker running, waiting for scheduled refreshes")
	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func serveMetrics(port int, db *repository.Database) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Health(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "unhealthy: %v", err)
			return
		}
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Str("addr", addr).Msg("Metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server stopped")
	}
}

func trackUptime() {
	start := time.Now()
	for range time.Tick(15 * time.Second) {
		metrics.SystemUptime.Set(time.Since(start).Seconds())
	}
}
