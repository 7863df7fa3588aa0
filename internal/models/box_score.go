package models

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// BoxScore represents one player's statistical line for one game.
// At most one row may exist per (game_id, player_id) pair; the database
// enforces this with a unique constraint and the loader defends it twice more.
type BoxScore struct {
	ID       int `db:"id"`
	GameID   int `db:"game_id"`
	PlayerID int `db:"player_id"`

	Minutes       sql.NullFloat64 `db:"minutes"`
	Points        int             `db:"points"`
	Rebounds      int             `db:"rebounds"`
	Assists       int             `db:"assists"`
	Steals        int             `db:"steals"`
	Blocks        int             `db:"blocks"`
	Turnovers     int             `db:"turnovers"`
	PersonalFouls int             `db:"personal_fouls"`

	FieldGoalsMade         int `db:"field_goals_made"`
	FieldGoalsAttempted    int `db:"field_goals_attempted"`
	ThreePointersMade      int `db:"three_pointers_made"`
	ThreePointersAttempted int `db:"three_pointers_attempted"`
	FreeThrowsMade         int `db:"free_throws_made"`
	FreeThrowsAttempted    int `db:"free_throws_attempted"`

	PlusMinus int `db:"plus_minus"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// BoxScoreRecord is the per-player line returned by the upstream box score
// endpoint for one game.
type BoxScoreRecord struct {
	GameID     string `json:"gameId"`
	PlayerID   int    `json:"playerId"`
	PlayerName string `json:"playerName"`
	TeamAbbr   string `json:"teamAbbreviation"`

	Minutes       string `json:"minutes"` // "MM:SS" or empty for DNP
	Points        int    `json:"points"`
	Rebounds      int    `json:"rebounds"`
	Assists       int    `json:"assists"`
	Steals        int    `json:"steals"`
	Blocks        int    `json:"blocks"`
	Turnovers     int    `json:"turnovers"`
	PersonalFouls int    `json:"personalFouls"`

	FieldGoalsMade         int `json:"fieldGoalsMade"`
	FieldGoalsAttempted    int `json:"fieldGoalsAttempted"`
	ThreePointersMade      int `json:"threePointersMade"`
	ThreePointersAttempted int `json:"threePointersAttempted"`
	FreeThrowsMade         int `json:"freeThrowsMade"`
	FreeThrowsAttempted    int `json:"freeThrowsAttempted"`

	PlusMinus int `json:"plusMinus"`
}

// ToBoxScore converts an upstream BoxScoreRecord to the BoxScore model.
// Game and player database IDs are resolved by the caller.
func (br *BoxScoreRecord) ToBoxScore(dbGameID, dbPlayerID int) *BoxScore {
	bs := &BoxScore{
		GameID:        dbGameID,
		PlayerID:      dbPlayerID,
		Points:        br.Points,
		Rebounds:      br.Rebounds,
		Assists:       br.Assists,
		Steals:        br.Steals,
		Blocks:        br.Blocks,
		Turnovers:     br.Turnovers,
		PersonalFouls: br.PersonalFouls,

		FieldGoalsMade:         br.FieldGoalsMade,
		FieldGoalsAttempted:    br.FieldGoalsAttempted,
		ThreePointersMade:      br.ThreePointersMade,
		ThreePointersAttempted: br.ThreePointersAttempted,
		FreeThrowsMade:         br.FreeThrowsMade,
		FreeThrowsAttempted:    br.FreeThrowsAttempted,

		PlusMinus: br.PlusMinus,
	}

	if mins, ok := ParseMinutes(br.Minutes); ok {
		bs.Minutes = sql.NullFloat64{Float64: mins, Valid: true}
	}

	return bs
}

// ParseMinutes parses the upstream "MM:SS" minutes format into fractional
// minutes. Plain numeric values are accepted as-is. Empty input (DNP rows)
// reports ok=false.
func ParseMinutes(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if mm, ss, found := strings.Cut(s, ":"); found {
		m, err1 := strconv.ParseFloat(mm, 64)
		sec, err2 := strconv.ParseFloat(ss, 64)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return m + sec/60.0, true
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
