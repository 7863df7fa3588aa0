package repository

import (
	"context"
	"fmt"

	"nbastats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// PlayerRepository handles player database operations
type PlayerRepository struct {
	db *Database
}

// Upsert inserts or updates a player, keyed on the upstream player ID
func (r *PlayerRepository) Upsert(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (
			player_id, name, position, height, weight, team_id
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (player_id) DO UPDATE SET
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			team_id = EXCLUDED.team_id,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		player.PlayerID, player.Name, player.Position,
		player.Height, player.Weight, player.TeamID,
	).Scan(&player.ID, &player.CreatedAt, &player.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}

	log.Debug().
		Int("id", player.ID).
		Int("player_id", player.PlayerID).
		Str("name", player.Name).
		Msg("Player upserted")

	return nil
}

// GetByExternalID retrieves a player by the upstream player ID
func (r *PlayerRepository) GetByExternalID(ctx context.Context, playerID int) (*models.Player, error) {
	query := `
		SELECT id, player_id, name, position, height, weight, team_id,
		       created_at, updated_at
		FROM players
		WHERE player_id = $1
	`

	var player models.Player
	err := r.db.Pool.QueryRow(ctx, query, playerID).Scan(
		&player.ID, &player.PlayerID, &player.Name, &player.Position,
		&player.Height, &player.Weight, &player.TeamID,
		&player.CreatedAt, &player.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("player not found: player_id=%d", playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return &player, nil
}

// GetByName retrieves a player by name
func (r *PlayerRepository) GetByName(ctx context.Context, name string) (*models.Player, error) {
	query := `
		SELECT id, player_id, name, position, height, weight, team_id,
		       created_at, updated_at
		FROM players
		WHERE name = $1
	`

	var player models.Player
	err := r.db.Pool.QueryRow(ctx, query, name).Scan(
		&player.ID, &player.PlayerID, &player.Name, &player.Position,
		&player.Height, &player.Weight, &player.TeamID,
		&player.CreatedAt, &player.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("player not found: name=%s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return &player, nil
}

// ListByTeam retrieves the players assigned to a team
func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	query := `
		SELECT id, player_id, name, position, height, weight, team_id,
		       created_at, updated_at
		FROM players
		WHERE team_id = $1
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players by team: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		var player models.Player
		err := rows.Scan(
			&player.ID, &player.PlayerID, &player.Name, &player.Position,
			&player.Height, &player.Weight, &player.TeamID,
			&player.CreatedAt, &player.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, &player)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}

	return players, nil
}

// Count returns the total number of players
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}

	return count, nil
}
