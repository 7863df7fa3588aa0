package scheduler

import (
	"context"
	"time"

	"nbastats/ingestion/internal/ingest"
	"nbastats/ingestion/internal/metrics"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler drives the nightly refresh: re-ingesting the trailing few dates
// so late score corrections and games missed by an earlier run get picked up.
// The dedup layers make the re-ingestion free of duplicate rows.
type Scheduler struct {
	cron       *cron.Cron
	runner     *ingest.Runner
	cronSpec   string
	windowDays int
	now        func() time.Time
}

// New creates a scheduler running the nightly refresh per the cron spec
func New(runner *ingest.Runner, cronSpec string, windowDays int) *Scheduler {
	if windowDays <= 0 {
		windowDays = 3
	}
	return &Scheduler{
		cron:       cron.New(),
		runner:     runner,
		cronSpec:   cronSpec,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// Start registers the refresh job and starts the cron loop
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cronSpec, s.refresh)
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Info().
		Str("cron", s.cronSpec).
		Int("window_days", s.windowDays).
		Msg("Nightly refresh scheduled")

	return nil
}

// Stop stops the cron loop and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Scheduler stopped")
}

// refresh re-ingests the trailing window ending yesterday
func (s *Scheduler) refresh() {
	dates := s.refreshDates()

	log.Info().
		Time("from", dates[0]).
		Time("to", dates[len(dates)-1]).
		Msg("Starting nightly refresh")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	summary, err := s.runner.RunDates(ctx, dates)
	if err != nil {
		metrics.RecordError("scheduler", "refresh")
		log.Error().Err(err).Msg("Nightly refresh failed")
		return
	}

	log.Info().
		Int("games_ingested", summary.GamesIngested).
		Int("box_scores_inserted", summary.BoxScoresInserted).
		Int("duplicates_skipped", summary.DuplicatesSkipped).
		Msg("Nightly refresh complete")
}

// refreshDates returns the trailing windowDays dates ending yesterday
func (s *Scheduler) refreshDates() []time.Time {
	today := s.now().UTC().Truncate(24 * time.Hour)
	dates := make([]time.Time, 0, s.windowDays)
	for i := s.windowDays; i >= 1; i-- {
		dates = append(dates, today.AddDate(0, 0, -i))
	}
	return dates
}
