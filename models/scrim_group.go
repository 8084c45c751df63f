package models

import (
	"time"
)

// ScrimGroup is a named block of matches played as one session between the
// same two teams (e.g. "ADMU vs UST Scrimmage (2026-08-28)"). Matches carry
// a 1-based GameNumber within their group.
type ScrimGroup struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	ScrimGroupName string    `json:"scrim_group_name" gorm:"not null"`
	Slug           string    `json:"slug" gorm:"index"`
	StartDate      time.Time `json:"start_date" gorm:"not null"`
	Notes          string    `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Matches []Match `json:"matches,omitempty" gorm:"foreignKey:ScrimGroupID"`
}
