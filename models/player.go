package models

import (
	"time"
)

// Player role choices
const (
	RoleJungler = "JUNGLER"
	RoleMid     = "MID"
	RoleRoamer  = "ROAMER"
	RoleExp     = "EXP"
	RoleGold    = "GOLD"
	RoleFlex    = "FLEX"
)

// Player represents a player identified by their in-game name (IGN).
// Players keep their identity across renames (via PlayerAlias) and team
// transfers (via PlayerTeamHistory).
type Player struct {
	ID              string  `json:"id" gorm:"primaryKey"`
	CurrentIGN      string  `json:"current_ign" gorm:"not null;index"`
	PrimaryRole     *string `json:"primary_role,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Aliases     []PlayerAlias       `json:"aliases,omitempty" gorm:"foreignKey:PlayerID"`
	TeamHistory []PlayerTeamHistory `json:"team_history,omitempty" gorm:"foreignKey:PlayerID"`
}

// PlayerAlias records a previously used IGN. Append-only — an alias row is
// created whenever a rename happens, so historical lookups keep working.
type PlayerAlias struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	PlayerID  string    `json:"player_id" gorm:"not null;index"`
	Alias     string    `json:"alias" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Player Player `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
}

// PlayerTeamHistory tracks a player's membership intervals per team.
// At most one row per player may have LeftDate = nil (the current team).
type PlayerTeamHistory struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	PlayerID   string     `json:"player_id" gorm:"not null;index"`
	TeamID     string     `json:"team_id" gorm:"not null;index"`
	JoinedDate time.Time  `json:"joined_date" gorm:"not null"`
	LeftDate   *time.Time `json:"left_date,omitempty"`
	IsStarter  bool       `json:"is_starter" gorm:"default:false"`
	Notes      string     `json:"notes,omitempty"`

	Player Player `json:"-" gorm:"foreignKey:PlayerID"`
	Team   Team   `json:"team,omitempty" gorm:"foreignKey:TeamID"`
}
