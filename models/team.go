package models

import (
	"time"
)

// Team represents any team — our own rosters or opponent-only teams we track.
type Team struct {
	ID               string `json:"id" gorm:"primaryKey"`
	TeamName         string `json:"team_name" gorm:"not null"`
	TeamAbbreviation string `json:"team_abbreviation" gorm:"not null"`
	TeamCategory     string `json:"team_category"` // Collegiate, Amateur, Pro
	IsOpponentOnly   bool   `json:"is_opponent_only" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// DisplayTag is what generated scrim group names use — the abbreviation when
// one exists, otherwise the full team name.
func (t Team) DisplayTag() string {
	if t.TeamAbbreviation != "" {
		return t.TeamAbbreviation
	}
	return t.TeamName
}
