package ingest

import (
	"context"
	"fmt"
	"time"

	"nbastats/ingestion/internal/metrics"
	"nbastats/ingestion/internal/models"
	"nbastats/ingestion/internal/repository"

	"github.com/rs/zerolog/log"
)

// StatsSource is the upstream provider surface the runner consumes.
// *client.Client satisfies it.
type StatsSource interface {
	GameSource
	GetBoxScore(ctx context.Context, gameID string) ([]models.BoxScoreRecord, error)
	ListPlayers(ctx context.Context, season string) ([]models.PlayerRecord, error)
	Teams() []models.TeamRecord
}

// ScoreboardCache caches scoreboard responses for completed dates.
// *cache.RedisCache satisfies it; nil disables caching.
type ScoreboardCache interface {
	GetScoreboard(ctx context.Context, season string, date time.Time) ([]models.GameRecord, bool)
	SetScoreboard(ctx context.Context, season string, date time.Time, games []models.GameRecord)
}

// TeamStore persists teams
type TeamStore interface {
	Upsert(ctx context.Context, team *models.Team) error
}

// PlayerStore persists players
type PlayerStore interface {
	Upsert(ctx context.Context, player *models.Player) error
}

// GameStore persists games
type GameStore interface {
	Upsert(ctx context.Context, game *models.Game) error
}

// Stores bundles the persistence surfaces the runner writes through
type Stores struct {
	Teams     TeamStore
	Players   PlayerStore
	Games     GameStore
	BoxScores RecordSink
}

// StoresFor adapts the database repositories to the runner's store surfaces
func StoresFor(db *repository.Database) Stores {
	return Stores{
		Teams:     db.Teams,
		Players:   db.Players,
		Games:     db.Games,
		BoxScores: db.BoxScores,
	}
}

// Config holds the ingestion tuning knobs
type Config struct {
	BatchSize          int
	ExistenceThreshold int
	EmptyDateLimit     int
	DedupResetGames    int
}

// Summary reports what one ingestion run did
type Summary struct {
	Season            string
	DatesProcessed    int
	GamesFound        int
	GamesIngested     int
	BoxScoresInserted int
	DuplicatesSkipped int
	PlayersAdded      int
	FetchFailures     int
	StoppedEarly      bool
}

// Runner orchestrates a season ingestion: seed reference data, walk the
// season's dates, upsert games, and stream box score rows through the batch
// loader. Upstream hiccups skip the affected game or date; only a failing
// database stops the run.
type Runner struct {
	source StatsSource
	stores Stores
	cache  ScoreboardCache
	cfg    Config
	now    func() time.Time
}

// NewRunner creates an ingestion runner. cache may be nil.
func NewRunner(source StatsSource, stores Stores, cache ScoreboardCache, cfg Config) *Runner {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	if cfg.EmptyDateLimit <= 0 {
		cfg.EmptyDateLimit = 7
	}
	return &Runner{
		source: source,
		stores: stores,
		cache:  cache,
		cfg:    cfg,
		now:    time.Now,
	}
}

// runState carries the per-run lookup tables and counters
type runState struct {
	teams           map[string]int // abbreviation -> database id
	players         map[int]int    // upstream player id -> database id
	dedup           *Dedup
	loader          *Loader
	gamesSinceReset int
	summary         *Summary
}

// Run ingests a full season, walking its dates from the window start and
// stopping once the season is confirmed over. Re-running the same season
// inserts nothing new.
func (r *Runner) Run(ctx context.Context, season string) (*Summary, error) {
	if _, _, err := models.SeasonWindow(season); err != nil {
		return nil, err
	}

	st, err := r.prepare(ctx, season)
	if err != nil {
		return nil, err
	}

	walker := NewWalker(r.gameSource(), r.cfg.EmptyDateLimit)
	stats, err := walker.Walk(ctx, season, func(date time.Time, games []models.GameRecord) error {
		return r.processDate(ctx, st, season, games)
	})
	if err != nil {
		return nil, err
	}

	if err := st.loader.Flush(ctx); err != nil {
		return nil, err
	}

	st.summary.DatesProcessed = stats.DatesProcessed
	st.summary.GamesFound = stats.GamesFound
	st.summary.FetchFailures += stats.FetchFailures
	st.summary.StoppedEarly = stats.StoppedEarly
	st.summary.BoxScoresInserted = st.loader.Inserted()
	st.summary.DuplicatesSkipped = st.loader.DuplicatesSkipped()
	r.finish(st.summary)

	return st.summary, nil
}

// RunDates re-ingests an explicit list of dates, in order, with no early
// stop. The nightly refresh and the backfill command use this path.
func (r *Runner) RunDates(ctx context.Context, dates []time.Time) (*Summary, error) {
	if len(dates) == 0 {
		return &Summary{}, nil
	}

	season := models.SeasonForDate(dates[0])
	st, err := r.prepare(ctx, season)
	if err != nil {
		return nil, err
	}

	source := r.gameSource()
	for _, date := range dates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		dateSeason := models.SeasonForDate(date)
		games, err := source.ListGames(ctx, dateSeason, date)
		st.summary.DatesProcessed++
		metrics.DatesProcessed.Inc()

		if err != nil {
			st.summary.FetchFailures++
			metrics.RecordError("runner", "scoreboard_fetch")
			log.Warn().
				Err(err).
				Str("date", date.Format("2006-01-02")).
				Msg("Scoreboard fetch failed, skipping date")
			continue
		}
		if len(games) == 0 {
			continue
		}

		st.summary.GamesFound += len(games)
		metrics.GamesFound.Add(float64(len(games)))
		if err := r.processDate(ctx, st, dateSeason, games); err != nil {
			return nil, err
		}
	}

	if err := st.loader.Flush(ctx); err != nil {
		return nil, err
	}

	st.summary.BoxScoresInserted = st.loader.Inserted()
	st.summary.DuplicatesSkipped = st.loader.DuplicatesSkipped()
	r.finish(st.summary)
	return st.summary, nil
}

// prepare seeds reference data and builds the per-run lookup tables
func (r *Runner) prepare(ctx context.Context, season string) (*runState, error) {
	st := &runState{
		teams:   make(map[string]int),
		players: make(map[int]int),
		summary: &Summary{Season: season},
	}

	for _, tr := range r.source.Teams() {
		team := tr.ToTeam()
		if err := r.stores.Teams.Upsert(ctx, team); err != nil {
			return nil, fmt.Errorf("failed to seed team %s: %w", tr.Abbreviation, err)
		}
		st.teams[team.Abbreviation] = team.ID
	}

	// A failed player list is not fatal; unknown players are added as their
	// box scores arrive.
	players, err := r.source.ListPlayers(ctx, season)
	if err != nil {
		metrics.RecordError("runner", "player_list_fetch")
		log.Warn().Err(err).Msg("Player list fetch failed, players will be added on demand")
	} else {
		for _, pr := range players {
			player := pr.ToPlayer(st.teams[pr.TeamAbbreviation])
			if err := r.stores.Players.Upsert(ctx, player); err != nil {
				return nil, fmt.Errorf("failed to seed player %d: %w", pr.PlayerID, err)
			}
			st.players[pr.PlayerID] = player.ID
		}
	}

	st.dedup = NewDedup()
	st.loader = NewLoader(r.stores.BoxScores, st.dedup, r.cfg.BatchSize, r.cfg.ExistenceThreshold)

	log.Info().
		Str("season", season).
		Int("teams", len(st.teams)).
		Int("players", len(st.players)).
		Msg("Reference data loaded")

	return st, nil
}

// processDate ingests every game of one date
func (r *Runner) processDate(ctx context.Context, st *runState, season string, games []models.GameRecord) error {
	for _, rec := range games {
		homeID, homeOK := st.teams[rec.HomeTeamAbbr]
		awayID, awayOK := st.teams[rec.AwayTeamAbbr]
		if !homeOK || !awayOK {
			metrics.RecordError("runner", "unknown_team")
			log.Warn().
				Str("game_id", rec.GameID).
				Str("home", rec.HomeTeamAbbr).
				Str("away", rec.AwayTeamAbbr).
				Msg("Game references unknown team, skipping")
			continue
		}

		game := rec.ToGame(homeID, awayID)
		game.Season = season
		if err := r.stores.Games.Upsert(ctx, game); err != nil {
			return fmt.Errorf("failed to persist game %s: %w", rec.GameID, err)
		}

		lines, err := r.source.GetBoxScore(ctx, rec.GameID)
		if err != nil {
			st.summary.FetchFailures++
			metrics.RecordError("runner", "box_score_fetch")
			log.Warn().
				Err(err).
				Str("game_id", rec.GameID).
				Msg("Box score fetch failed, skipping game")
			continue
		}

		for i := range lines {
			line := &lines[i]
			playerDBID, ok := st.players[line.PlayerID]
			if !ok {
				pr := models.PlayerRecord{PlayerID: line.PlayerID, Name: line.PlayerName}
				player := pr.ToPlayer(st.teams[line.TeamAbbr])
				if err := r.stores.Players.Upsert(ctx, player); err != nil {
					return fmt.Errorf("failed to persist player %d: %w", line.PlayerID, err)
				}
				st.players[line.PlayerID] = player.ID
				st.summary.PlayersAdded++
				playerDBID = player.ID
			}

			if err := st.loader.Add(ctx, line.ToBoxScore(game.ID, playerDBID)); err != nil {
				return err
			}
		}

		st.summary.GamesIngested++
		st.gamesSinceReset++

		if r.cfg.DedupResetGames > 0 && st.gamesSinceReset >= r.cfg.DedupResetGames {
			if err := st.loader.Flush(ctx); err != nil {
				return err
			}
			st.dedup.Reset()
			st.gamesSinceReset = 0
			log.Debug().Msg("Dedup pair set reset")
		}
	}

	return nil
}

// finish fills the summary from the loader and logs the run result
func (r *Runner) finish(s *Summary) {
	metrics.LastSuccessfulRun.SetToCurrentTime()

	log.Info().
		Str("season", s.Season).
		Int("dates_processed", s.DatesProcessed).
		Int("games_found", s.GamesFound).
		Int("games_ingested", s.GamesIngested).
		Int("box_scores_inserted", s.BoxScoresInserted).
		Int("duplicates_skipped", s.DuplicatesSkipped).
		Int("players_added", s.PlayersAdded).
		Int("fetch_failures", s.FetchFailures).
		Bool("stopped_early", s.StoppedEarly).
		Msg("Ingestion run complete")
}

// gameSource wraps the upstream source with the scoreboard cache when present
func (r *Runner) gameSource() GameSource {
	if r.cache == nil {
		return r.source
	}
	return &cachedGameSource{source: r.source, cache: r.cache, now: r.now}
}

// cachedGameSource serves completed dates from the scoreboard cache. Today
// and future dates always go upstream since their scoreboards can still
// change.
type cachedGameSource struct {
	source GameSource
	cache  ScoreboardCache
	now    func() time.Time
}

func (s *cachedGameSource) ListGames(ctx context.Context, season string, date time.Time) ([]models.GameRecord, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	completed := date.Before(today)

	if completed {
		if games, ok := s.cache.GetScoreboard(ctx, season, date); ok {
			return games, nil
		}
	}

	games, err := s.source.ListGames(ctx, season, date)
	if err != nil {
		return nil, err
	}

	if completed {
		s.cache.SetScoreboard(ctx, season, date, games)
	}

	return games, nil
}
