package models

import (
	"time"
)

// Hero is a playable character. Stat rows reference heroes by id only —
// free-text hero names are resolved once at the submission boundary.
type Hero struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null;uniqueIndex"`
	Role         string     `json:"role,omitempty"`
	ReleasedDate *time.Time `json:"released_date,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
