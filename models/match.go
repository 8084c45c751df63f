package models

import (
	"encoding/json"
	"time"
)

// Scrim type choices
const (
	ScrimTypeScrimmage  = "SCRIMMAGE"
	ScrimTypeTournament = "TOURNAMENT"
	ScrimTypeRanked     = "RANKED"
)

// Match outcome choices — always relative to OurTeamID. Matches with no
// our-team context (purely observational) keep a nil outcome.
const (
	OutcomeVictory = "VICTORY"
	OutcomeDefeat  = "DEFEAT"
)

// Match is an individual game, optionally attached to a ScrimGroup.
// Score details, outcome and awards are derived from the stat rows and
// recomputed on every stat write.
type Match struct {
	ID            string  `json:"id" gorm:"primaryKey"`
	ScrimGroupID  *string `json:"scrim_group_id,omitempty" gorm:"index"`
	SubmittedByID string  `json:"submitted_by_id"`

	MatchDate time.Time `json:"match_date" gorm:"not null;index"`

	BlueSideTeamID string  `json:"blue_side_team_id" gorm:"not null;index"`
	RedSideTeamID  string  `json:"red_side_team_id" gorm:"not null;index"`
	OurTeamID      *string `json:"our_team_id,omitempty" gorm:"index"`
	WinningTeamID  *string `json:"winning_team_id,omitempty"`

	MVPID     *string `json:"mvp_id,omitempty"`
	MVPLossID *string `json:"mvp_loss_id,omitempty"`

	ScrimType     string  `json:"scrim_type" gorm:"not null"`
	MatchOutcome  *string `json:"match_outcome,omitempty"`
	MatchDuration *string `json:"match_duration,omitempty"` // HH:MM:SS
	GameNumber    int     `json:"game_number" gorm:"default:0"`
	GeneralNotes  string  `json:"general_notes,omitempty"`

	ScoreDetailsJSON string `json:"-" gorm:"column:score_details;type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	ScrimGroup   *ScrimGroup       `json:"scrim_group,omitempty" gorm:"foreignKey:ScrimGroupID"`
	BlueSideTeam Team              `json:"blue_side_team,omitempty" gorm:"foreignKey:BlueSideTeamID"`
	RedSideTeam  Team              `json:"red_side_team,omitempty" gorm:"foreignKey:RedSideTeamID"`
	PlayerStats  []PlayerMatchStat `json:"player_stats,omitempty" gorm:"foreignKey:MatchID"`
	Awards       []MatchAward      `json:"awards,omitempty" gorm:"foreignKey:MatchID"`
}

// TeamTotals aggregates one side's stat rows.
type TeamTotals struct {
	Kills        int `json:"kills"`
	Deaths       int `json:"deaths"`
	Assists      int `json:"assists"`
	DamageDealt  int `json:"damage_dealt"`
	GoldEarned   int `json:"gold_earned"`
	TurretDamage int `json:"turret_damage"`
	DamageTaken  int `json:"damage_taken"`
}

// SideScore is one side of the scoreboard: the kill-count score plus totals,
// with the team name denormalized for display.
type SideScore struct {
	TeamID   string     `json:"team_id"`
	TeamName string     `json:"team_name"`
	Score    int        `json:"score"`
	Totals   TeamTotals `json:"totals"`
}

// ScoreDetails is the persisted score blob. The score convention is kill
// count — there is no separate points field, so entered scores can never
// disagree with the stat totals.
type ScoreDetails struct {
	BlueSide SideScore `json:"blue_side"`
	RedSide  SideScore `json:"red_side"`
	ScoredBy string    `json:"scored_by"` // always "kills"
}

// ScoreDetails decodes the stored blob. Returns nil when nothing has been
// computed yet.
func (m *Match) ScoreDetails() *ScoreDetails {
	if m.ScoreDetailsJSON == "" {
		return nil
	}
	var sd ScoreDetails
	if err := json.Unmarshal([]byte(m.ScoreDetailsJSON), &sd); err != nil {
		return nil
	}
	return &sd
}

// SetScoreDetails encodes and stores the blob on the struct (not the DB).
func (m *Match) SetScoreDetails(sd ScoreDetails) error {
	raw, err := json.Marshal(sd)
	if err != nil {
		return err
	}
	m.ScoreDetailsJSON = string(raw)
	return nil
}
