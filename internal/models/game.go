package models

import (
	"database/sql"
	"time"
)

// Game represents a scheduled or played NBA game
type Game struct {
	ID           int           `db:"id"`
	GameID       string        `db:"game_id"` // upstream provider ID, e.g. "0022300641"
	GameDate     time.Time     `db:"game_date"`
	Season       string        `db:"season"` // e.g. "2023-24"
	HomeTeamID   int           `db:"home_team_id"`
	AwayTeamID   int           `db:"away_team_id"`
	HomeTeamAbbr string        `db:"home_team_abbr"`
	AwayTeamAbbr string        `db:"away_team_abbr"`
	HomeScore    sql.NullInt32 `db:"home_score"`
	AwayScore    sql.NullInt32 `db:"away_score"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

// GameRecord is the per-game shape returned by the upstream scoreboard
type GameRecord struct {
	GameID       string `json:"gameId"`
	GameDate     string `json:"gameDate"` // YYYY-MM-DD
	HomeTeamAbbr string `json:"homeTeam"`
	AwayTeamAbbr string `json:"awayTeam"`
	HomeScore    *int   `json:"homeScore,omitempty"`
	AwayScore    *int   `json:"awayScore,omitempty"`
}

// ToGame converts an upstream GameRecord to the Game model.
// Team database IDs are resolved by the caller from the abbreviation map.
func (gr *GameRecord) ToGame(homeTeamDBID, awayTeamDBID int) *Game {
	game := &Game{
		GameID:       gr.GameID,
		Season:       SeasonForDate(mustParseDate(gr.GameDate)),
		HomeTeamID:   homeTeamDBID,
		AwayTeamID:   awayTeamDBID,
		HomeTeamAbbr: gr.HomeTeamAbbr,
		AwayTeamAbbr: gr.AwayTeamAbbr,
	}

	if d, err := time.Parse("2006-01-02", gr.GameDate); err == nil {
		game.GameDate = d
	}

	if gr.HomeScore != nil {
		game.HomeScore = sql.NullInt32{Int32: int32(*gr.HomeScore), Valid: true}
	}
	if gr.AwayScore != nil {
		game.AwayScore = sql.NullInt32{Int32: int32(*gr.AwayScore), Valid: true}
	}

	return game
}

// IsFinal reports whether both final scores are present
func (g *Game) IsFinal() bool {
	return g.HomeScore.Valid && g.AwayScore.Valid
}

func mustParseDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return d
}
