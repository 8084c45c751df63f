package models

import (
	"time"
)

// Edit type choices
const (
	EditTypeMatch        = "MATCH_EDIT"
	EditTypeStat         = "STAT_EDIT"
	EditTypeMatchRestore = "MATCH_RESTORE"
	EditTypeStatRestore  = "STAT_RESTORE"
)

// MatchEditHistory is the append-only audit log for match-metadata and
// player-stat edits. The before/after blobs are field-name→value maps scoped
// to only the fields that changed. Restores append new rows; nothing in the
// log is ever mutated or deleted.
type MatchEditHistory struct {
	ID       string  `json:"id" gorm:"primaryKey"`
	MatchID  string  `json:"match_id" gorm:"not null;index"`
	EditorID string  `json:"editor_id" gorm:"not null"`
	EditType string  `json:"edit_type" gorm:"not null"`
	StatID   *string `json:"stat_id,omitempty" gorm:"index"`

	PreviousValuesJSON string `json:"-" gorm:"column:previous_values;type:jsonb"`
	NewValuesJSON      string `json:"-" gorm:"column:new_values;type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}
