package repository

import (
	"database/sql"
	"testing"
	"time"

	"nbastats/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	home := &models.Team{TeamID: 920000, Abbreviation: "GH", Name: "Game Home", City: "Here"}
	away := &models.Team{TeamID: 920001, Abbreviation: "GA", Name: "Game Away", City: "There"}
	require.NoError(t, db.Teams.Upsert(ctx, home))
	require.NoError(t, db.Teams.Upsert(ctx, away))

	game := &models.Game{
		GameID:       "UPSERTGAME1",
		GameDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Season:       "2023-24",
		HomeTeamID:   home.ID,
		AwayTeamID:   away.ID,
		HomeTeamAbbr: "GH",
		AwayTeamAbbr: "GA",
		HomeScore:    sql.NullInt32{Int32: 120, Valid: true},
		AwayScore:    sql.NullInt32{Int32: 115, Valid: true},
	}

	require.NoError(t, db.Games.Upsert(ctx, game))
	assert.NotZero(t, game.ID)

	retrieved, err := db.Games.GetByExternalID(ctx, "UPSERTGAME1")
	require.NoError(t, err)
	assert.Equal(t, "2023-24", retrieved.Season)
	assert.Equal(t, int32(120), retrieved.HomeScore.Int32)
	assert.True(t, retrieved.IsFinal())

	// Re-upserting without scores must not erase the stored ones
	again := *game
	again.HomeScore = sql.NullInt32{}
	again.AwayScore = sql.NullInt32{}
	require.NoError(t, db.Games.Upsert(ctx, &again))
	assert.Equal(t, game.ID, again.ID, "same external id resolves to the same row")

	kept, err := db.Games.GetByExternalID(ctx, "UPSERTGAME1")
	require.NoError(t, err)
	assert.Equal(t, int32(120), kept.HomeScore.Int32, "scores survive a scoreless re-ingest")
	assert.Equal(t, int32(115), kept.AwayScore.Int32)
}

func TestGameRepository_GetByExternalID_NotFound(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Games.GetByExternalID(ctx, "NO_SUCH_GAME")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGameRepository_ListByDate(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	home := &models.Team{TeamID: 920010, Abbreviation: "LH", Name: "List Home", City: "Here"}
	away := &models.Team{TeamID: 920011, Abbreviation: "LA2", Name: "List Away", City: "There"}
	require.NoError(t, db.Teams.Upsert(ctx, home))
	require.NoError(t, db.Teams.Upsert(ctx, away))

	date := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"LISTGAME1", "LISTGAME2"} {
		game := &models.Game{
			GameID:       id,
			GameDate:     date,
			Season:       "2023-24",
			HomeTeamID:   home.ID,
			AwayTeamID:   away.ID,
			HomeTeamAbbr: "LH",
			AwayTeamAbbr: "LA2",
		}
		require.NoError(t, db.Games.Upsert(ctx, game))
	}

	games, err := db.Games.ListByDate(ctx, date)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(games), 2)
	for _, g := range games {
		assert.Equal(t, date, g.GameDate.UTC())
	}
}

func TestTeamRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := &models.Team{
		TeamID:       930000,
		Abbreviation: "UPS",
		Name:         "Upsert FC",
		City:         "Testville",
		Conference:   sql.NullString{String: "East", Valid: true},
	}
	require.NoError(t, db.Teams.Upsert(ctx, team))
	firstID := team.ID

	team.Name = "Upsert FC Renamed"
	require.NoError(t, db.Teams.Upsert(ctx, team))
	assert.Equal(t, firstID, team.ID)

	got, err := db.Teams.GetByAbbreviation(ctx, "UPS")
	require.NoError(t, err)
	assert.Equal(t, "Upsert FC Renamed", got.Name)
}

func TestPlayerRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	player := &models.Player{PlayerID: 940000, Name: "Upsert Player"}
	require.NoError(t, db.Players.Upsert(ctx, player))
	firstID := player.ID

	player.Position = sql.NullString{String: "G", Valid: true}
	require.NoError(t, db.Players.Upsert(ctx, player))
	assert.Equal(t, firstID, player.ID)

	got, err := db.Players.GetByExternalID(ctx, 940000)
	require.NoError(t, err)
	assert.Equal(t, "G", got.Position.String)
}
