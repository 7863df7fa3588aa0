package repository

import (
	"context"
	"fmt"

	"nbastats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// BoxScoreRepository handles box score database operations. It is the
// relational sink for the batch loader: bulk insert plus a targeted pair
// existence check, both amortized to one round trip per batch.
type BoxScoreRepository struct {
	db *Database
}

var boxScoreColumns = []string{
	"game_id", "player_id", "minutes",
	"points", "rebounds", "assists", "steals", "blocks", "turnovers", "personal_fouls",
	"field_goals_made", "field_goals_attempted",
	"three_pointers_made", "three_pointers_attempted",
	"free_throws_made", "free_throws_attempted",
	"plus_minus",
}

func boxScoreValues(bs *models.BoxScore) []interface{} {
	return []interface{}{
		bs.GameID, bs.PlayerID, bs.Minutes,
		bs.Points, bs.Rebounds, bs.Assists, bs.Steals, bs.Blocks, bs.Turnovers, bs.PersonalFouls,
		bs.FieldGoalsMade, bs.FieldGoalsAttempted,
		bs.ThreePointersMade, bs.ThreePointersAttempted,
		bs.FreeThrowsMade, bs.FreeThrowsAttempted,
		bs.PlusMinus,
	}
}

// ExistingPairs returns which of the given (game_id, player_id) pairs already
// have a persisted box score. One query regardless of batch size.
func (r *BoxScoreRepository) ExistingPairs(ctx context.Context, pairs []models.GamePlayerKey) (map[models.GamePlayerKey]struct{}, error) {
	existing := make(map[models.GamePlayerKey]struct{})
	if len(pairs) == 0 {
		return existing, nil
	}

	gameIDs := make([]int, len(pairs))
	playerIDs := make([]int, len(pairs))
	for i, p := range pairs {
		gameIDs[i] = p.GameID
		playerIDs[i] = p.PlayerID
	}

	query := `
		SELECT b.game_id, b.player_id
		FROM box_scores b
		JOIN unnest($1::int[], $2::int[]) AS p(game_id, player_id)
		  ON b.game_id = p.game_id AND b.player_id = p.player_id
	`

	rows, err := r.db.Pool.Query(ctx, query, gameIDs, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing box score pairs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key models.GamePlayerKey
		if err := rows.Scan(&key.GameID, &key.PlayerID); err != nil {
			return nil, fmt.Errorf("failed to scan box score pair: %w", err)
		}
		existing[key] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating box score pairs: %w", err)
	}

	return existing, nil
}

// BulkInsert inserts all rows in one COPY inside a single transaction. A
// unique violation fails the whole batch; callers fall back to
// InsertSkipConflicts in that case.
func (r *BoxScoreRepository) BulkInsert(ctx context.Context, rows []*models.BoxScore) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin bulk insert: %w", err)
	}
	defer tx.Rollback(ctx)

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"box_scores"},
		boxScoreColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
			return boxScoreValues(rows[i]), nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("bulk insert of %d box scores failed: %w", len(rows), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit bulk insert: %w", err)
	}

	log.Debug().Int64("rows", n).Msg("Box scores bulk inserted")
	return int(n), nil
}

// InsertSkipConflicts inserts rows one by one within a single transaction,
// silently skipping pairs that already exist. Used as the recovery path when
// a bulk insert trips the unique constraint.
func (r *BoxScoreRepository) InsertSkipConflicts(ctx context.Context, rows []*models.BoxScore) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO box_scores (
			game_id, player_id, minutes,
			points, rebounds, assists, steals, blocks, turnovers, personal_fouls,
			field_goals_made, field_goals_attempted,
			three_pointers_made, three_pointers_attempted,
			free_throws_made, free_throws_attempted,
			plus_minus
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (game_id, player_id) DO NOTHING
	`

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin insert: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, bs := range rows {
		tag, err := tx.Exec(ctx, query, boxScoreValues(bs)...)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert box score (game_id=%d, player_id=%d): %w",
				bs.GameID, bs.PlayerID, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit insert: %w", err)
	}

	return inserted, nil
}

// CountByGame returns the number of box score rows recorded for a game
func (r *BoxScoreRepository) CountByGame(ctx context.Context, gameID int) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM box_scores WHERE game_id = $1`, gameID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count box scores: %w", err)
	}

	return count, nil
}

// Count returns the total number of box score rows
func (r *BoxScoreRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM box_scores`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count box scores: %w", err)
	}

	return count, nil
}
