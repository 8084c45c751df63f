package models

import (
	"time"
)

// Award type choices. MVP and MVP_LOSS are human selections; the rest are
// computed superlatives.
const (
	AwardMVP             = "MVP"
	AwardMVPLoss         = "MVP_LOSS"
	AwardBestKDA         = "BEST_KDA"
	AwardMostKills       = "MOST_KILLS"
	AwardMostAssists     = "MOST_ASSISTS"
	AwardLeastDeaths     = "LEAST_DEATHS"
	AwardMostDamage      = "MOST_DAMAGE"
	AwardMostGold        = "MOST_GOLD"
	AwardMostTurretDmg   = "MOST_TURRET_DAMAGE"
	AwardMostDamageTaken = "MOST_DAMAGE_TAKEN"
)

// MatchAward is a per-match superlative. At most one award of a given type
// exists per match — reassignment clears and recreates instead of appending.
type MatchAward struct {
	ID        string  `json:"id" gorm:"primaryKey"`
	MatchID   string  `json:"match_id" gorm:"not null;uniqueIndex:idx_match_award_type"`
	PlayerID  string  `json:"player_id" gorm:"not null;index"`
	AwardType string  `json:"award_type" gorm:"not null;uniqueIndex:idx_match_award_type"`
	StatValue float64 `json:"stat_value"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Player Player `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
}
