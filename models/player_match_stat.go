package models

import (
	"time"
)

// PlayerMatchStat is one player's line in one match. TeamID must equal one of
// the match's two side teams — rows for a third team are rejected at write
// time.
type PlayerMatchStat struct {
	ID       string `json:"id" gorm:"primaryKey"`
	MatchID  string `json:"match_id" gorm:"not null;index"`
	PlayerID string `json:"player_id" gorm:"not null;index"`
	TeamID   string `json:"team_id" gorm:"not null;index"`

	RolePlayed *string `json:"role_played,omitempty"`
	HeroID     *string `json:"hero_id,omitempty" gorm:"index"`

	Kills       int     `json:"kills" gorm:"not null"`
	Deaths      int     `json:"deaths" gorm:"not null"`
	Assists     int     `json:"assists" gorm:"not null"`
	ComputedKDA float64 `json:"computed_kda"`

	DamageDealt            *int     `json:"damage_dealt,omitempty"`
	DamageTaken            *int     `json:"damage_taken,omitempty"`
	TurretDamage           *int     `json:"turret_damage,omitempty"`
	GoldEarned             *int     `json:"gold_earned,omitempty"`
	TeamfightParticipation *float64 `json:"teamfight_participation,omitempty"` // percentage
	Medal                  *string  `json:"medal,omitempty"`
	PlayerNotes            *string  `json:"player_notes,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Player Player `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
	Team   Team   `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Hero   *Hero  `json:"hero,omitempty" gorm:"foreignKey:HeroID"`
}
