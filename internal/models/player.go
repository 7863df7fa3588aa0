package models

import (
	"database/sql"
	"time"
)

// Player represents an NBA player
type Player struct {
	ID        int            `db:"id"`
	PlayerID  int            `db:"player_id"` // upstream provider ID
	Name      string         `db:"name"`
	Position  sql.NullString `db:"position"`
	Height    sql.NullString `db:"height"` // e.g. "6-8"
	Weight    sql.NullInt32  `db:"weight"` // pounds
	TeamID    sql.NullInt32  `db:"team_id"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// PlayerRecord is the player shape returned by the upstream provider
type PlayerRecord struct {
	PlayerID         int    `json:"playerId"`
	Name             string `json:"name"`
	TeamAbbreviation string `json:"teamAbbreviation,omitempty"`
	Position         string `json:"position,omitempty"`
	Height           string `json:"height,omitempty"`
	Weight           *int   `json:"weight,omitempty"`
}

// ToPlayer converts an upstream PlayerRecord to the Player model.
// The team database ID is resolved by the caller; pass 0 for free agents.
func (pr *PlayerRecord) ToPlayer(teamDBID int) *Player {
	player := &Player{
		PlayerID: pr.PlayerID,
		Name:     pr.Name,
	}

	if pr.Position != "" {
		player.Position = sql.NullString{String: pr.Position, Valid: true}
	}
	if pr.Height != "" {
		player.Height = sql.NullString{String: pr.Height, Valid: true}
	}
	if pr.Weight != nil {
		player.Weight = sql.NullInt32{Int32: int32(*pr.Weight), Valid: true}
	}
	if teamDBID > 0 {
		player.TeamID = sql.NullInt32{Int32: int32(teamDBID), Valid: true}
	}

	return player
}
