package repository

import (
	"context"
	"fmt"
	"time"

	"nbastats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

// Upsert inserts or updates a game, keyed on the upstream game ID. Scores are
// back-filled on re-ingestion of the same date.
func (r *GameRepository) Upsert(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (
			game_id, game_date, season, home_team_id, away_team_id,
			home_team_abbr, away_team_abbr, home_score, away_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (game_id) DO UPDATE SET
			game_date = EXCLUDED.game_date,
			season = EXCLUDED.season,
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			home_team_abbr = EXCLUDED.home_team_abbr,
			away_team_abbr = EXCLUDED.away_team_abbr,
			home_score = COALESCE(EXCLUDED.home_score, games.home_score),
			away_score = COALESCE(EXCLUDED.away_score, games.away_score),
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		game.GameID, game.GameDate, game.Season, game.HomeTeamID, game.AwayTeamID,
		game.HomeTeamAbbr, game.AwayTeamAbbr, game.HomeScore, game.AwayScore,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	log.Debug().
		Int("id", game.ID).
		Str("game_id", game.GameID).
		Str("home", game.HomeTeamAbbr).
		Str("away", game.AwayTeamAbbr).
		Msg("Game upserted")

	return nil
}

// GetByExternalID retrieves a game by the upstream game ID
func (r *GameRepository) GetByExternalID(ctx context.Context, gameID string) (*models.Game, error) {
	query := `
		SELECT id, game_id, game_date, season, home_team_id, away_team_id,
		       home_team_abbr, away_team_abbr, home_score, away_score,
		       created_at, updated_at
		FROM games
		WHERE game_id = $1
	`

	var game models.Game
	err := r.db.Pool.QueryRow(ctx, query, gameID).Scan(
		&game.ID, &game.GameID, &game.GameDate, &game.Season,
		&game.HomeTeamID, &game.AwayTeamID,
		&game.HomeTeamAbbr, &game.AwayTeamAbbr,
		&game.HomeScore, &game.AwayScore,
		&game.CreatedAt, &game.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("game not found: game_id=%s", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return &game, nil
}

// ListByDate retrieves the games played on one date
func (r *GameRepository) ListByDate(ctx context.Context, date time.Time) ([]*models.Game, error) {
	query := `
		SELECT id, game_id, game_date, season, home_team_id, away_team_id,
		       home_team_abbr, away_team_abbr, home_score, away_score,
		       created_at, updated_at
		FROM games
		WHERE game_date = $1
		ORDER BY game_id
	`

	return r.list(ctx, query, date)
}

// ListBySeason retrieves all games for a season label
func (r *GameRepository) ListBySeason(ctx context.Context, season string) ([]*models.Game, error) {
	query := `
		SELECT id, game_id, game_date, season, home_team_id, away_team_id,
		       home_team_abbr, away_team_abbr, home_score, away_score,
		       created_at, updated_at
		FROM games
		WHERE season = $1
		ORDER BY game_date, game_id
	`

	return r.list(ctx, query, season)
}

func (r *GameRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Game, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		var game models.Game
		err := rows.Scan(
			&game.ID, &game.GameID, &game.GameDate, &game.Season,
			&game.HomeTeamID, &game.AwayTeamID,
			&game.HomeTeamAbbr, &game.AwayTeamAbbr,
			&game.HomeScore, &game.AwayScore,
			&game.CreatedAt, &game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, &game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// CountBySeason returns the number of games recorded for a season
func (r *GameRepository) CountBySeason(ctx context.Context, season string) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM games WHERE season = $1`, season).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}

// Count returns the total number of games
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM games`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}
