package ingest

import (
	"context"
	"time"

	"nbastats/ingestion/internal/metrics"
	"nbastats/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// GameSource lists the games played on a date. *client.Client satisfies it.
type GameSource interface {
	ListGames(ctx context.Context, season string, date time.Time) ([]models.GameRecord, error)
}

// DateFunc is invoked once per date that has games
type DateFunc func(date time.Time, games []models.GameRecord) error

// Walker iterates the candidate dates of a season in order, invoking a
// callback for each date with games. Once it sees emptyLimit consecutive
// dates without games it assumes the season is over and stops, so walking a
// full season window costs only a handful of calls past the last game.
type Walker struct {
	source     GameSource
	emptyLimit int
}

// WalkStats summarizes one season walk
type WalkStats struct {
	DatesProcessed int
	GamesFound     int
	FetchFailures  int
	StoppedEarly   bool
}

// NewWalker creates a season date walker
func NewWalker(source GameSource, emptyLimit int) *Walker {
	if emptyLimit <= 0 {
		emptyLimit = 7
	}
	return &Walker{source: source, emptyLimit: emptyLimit}
}

// Walk visits every candidate date of the season from its window start. A
// fetch failure counts as an empty date: the source already retried, and a
// transient gap must not stall the walk or defeat the early stop.
func (w *Walker) Walk(ctx context.Context, season string, fn DateFunc) (*WalkStats, error) {
	start, end, err := models.SeasonWindow(season)
	if err != nil {
		return nil, err
	}

	stats := &WalkStats{}
	consecutiveEmpty := 0

	log.Info().
		Str("season", season).
		Time("start", start).
		Time("end", end).
		Msg("Walking season dates")

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		games, err := w.source.ListGames(ctx, season, date)
		stats.DatesProcessed++
		metrics.DatesProcessed.Inc()

		switch {
		case err != nil:
			stats.FetchFailures++
			consecutiveEmpty++
			metrics.RecordError("walker", "scoreboard_fetch")
			log.Warn().
				Err(err).
				Str("date", date.Format("2006-01-02")).
				Msg("Scoreboard fetch failed, treating date as empty")

		case len(games) == 0:
			consecutiveEmpty++
			log.Debug().
				Str("date", date.Format("2006-01-02")).
				Msg("No games on date")

		default:
			consecutiveEmpty = 0
			stats.GamesFound += len(games)
			metrics.GamesFound.Add(float64(len(games)))
			if err := fn(date, games); err != nil {
				return stats, err
			}
		}

		if consecutiveEmpty >= w.emptyLimit {
			stats.StoppedEarly = true
			log.Info().
				Str("season", season).
				Str("date", date.Format("2006-01-02")).
				Int("consecutive_empty", consecutiveEmpty).
				Msg("No games for consecutive dates, season complete")
			break
		}
	}

	return stats, nil
}
