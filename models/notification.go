package models

import "time"

// Notification levels
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
	Level     string    `json:"level" gorm:"not null"`
	Message   string    `json:"message" gorm:"not null"`
	Read      bool      `json:"read" gorm:"not null;index"`
}

// Activity is an entry of the operator-facing activity feed.
type Activity struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Timestamp   time.Time `json:"timestamp" gorm:"not null;index"`
	Type        string    `json:"type" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	Icon        *string   `json:"icon"`
}
