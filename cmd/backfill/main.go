package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nbastats/ingestion/internal/client"
	"nbastats/ingestion/internal/config"
	"nbastats/ingestion/internal/ingest"
	"nbastats/ingestion/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// backfill re-ingests an explicit date range. Safe to run over dates that
// were already ingested; existing rows are skipped, missing ones filled in.
//
// Usage:
//
//	backfill -from 2024-01-10 -to 2024-01-15
//	backfill -date 2024-01-12
func main() {
	var (
		fromFlag = flag.String("from", "", "first date to ingest (YYYY-MM-DD)")
		toFlag   = flag.String("to", "", "last date to ingest (YYYY-MM-DD)")
		dateFlag = flag.String("date", "", "single date to ingest (YYYY-MM-DD)")
	)
	flag.Parse()

	cfg := config.MustLoad()
	setupLogger(cfg)

	dates, err := resolveDates(*fromFlag, *toFlag, *dateFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		flag.Usage()
		os.Exit(2)
	}

	log.Info().
		Time("from", dates[0]).
		Time("to", dates[len(dates)-1]).
		Int("dates", len(dates)).
		Msg("Starting backfill")

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

	// No scoreboard cache here: a backfill usually exists to repair bad or
	// missing data, so every date goes upstream.
	runner := ingest.NewRunner(api, ingest.StoresFor(db), nil, ingest.Config{
		BatchSize:          cfg.BatchSize,
		ExistenceThreshold: cfg.ExistenceThreshold,
		EmptyDateLimit:     cfg.EmptyDateLimit,
		DedupResetGames:    cfg.DedupResetGames,
	})

	summary, err := runner.RunDates(ctx, dates)
	if err != nil {
		log.Fatal().Err(err).Msg("Backfill failed")
	}

	log.Info().
		Int("dates_processed", summary.DatesProcessed).
		Int("games_ingested", summary.GamesIngested).
		Int("box_scores_inserted", summary.BoxScoresInserted).
		Int("duplicates_skipped", summary.DuplicatesSkipped).
		Msg("Backfill complete")
}

func resolveDates(from, to, single string) ([]time.Time, error) {
	if single != "" {
		if from != "" || to != "" {
			return nil, fmt.Errorf("-date cannot be combined with -from/-to")
		}
		d, err := time.Parse("2006-01-02", single)
		if err != nil {
			return nil, fmt.Errorf("invalid -date %q", single)
		}
		return []time.Time{d}, nil
	}

	if from == "" || to == "" {
		return nil, fmt.Errorf("either -date or both -from and -to are required")
	}

	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("invalid -from %q", from)
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("invalid -to %q", to)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("-to must not be before -from")
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates, nil
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
