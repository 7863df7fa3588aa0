package models

import (
	"database/sql"
	"time"
)

// Team represents an NBA franchise
type Team struct {
	ID           int            `db:"id"`
	TeamID       int            `db:"team_id"` // upstream provider ID
	Abbreviation string         `db:"abbreviation"`
	Name         string         `db:"name"`
	City         string         `db:"city"`
	Conference   sql.NullString `db:"conference"`
	Division     sql.NullString `db:"division"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// TeamRecord is the team shape returned by the upstream provider
type TeamRecord struct {
	TeamID       int    `json:"teamId"`
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Conference   string `json:"conference,omitempty"`
	Division     string `json:"division,omitempty"`
}

// ToTeam converts an upstream TeamRecord to the Team model
func (tr *TeamRecord) ToTeam() *Team {
	team := &Team{
		TeamID:       tr.TeamID,
		Abbreviation: tr.Abbreviation,
		Name:         tr.Name,
		City:         tr.City,
	}

	if tr.Conference != "" {
		team.Conference = sql.NullString{String: tr.Conference, Valid: true}
	}
	if tr.Division != "" {
		team.Division = sql.NullString{String: tr.Division, Valid: true}
	}

	return team
}
