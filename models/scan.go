package models

import "time"

// Scan is a field observation taken by a user, optionally analysed by an ML model.
type Scan struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"userId" gorm:"not null;index"`
	User        *User     `json:"-"`
	Name        string    `json:"name" gorm:"not null" binding:"required"`
	Location    string    `json:"location" gorm:"not null" binding:"required"`
	Latitude    float64   `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude   float64   `json:"longitude" binding:"gte=-180,lte=180"`
	Description *string   `json:"description"`
	Confidence  float64   `json:"confidence" binding:"gte=0,lte=1"`
	Timestamp   time.Time `json:"timestamp" gorm:"not null;index"`
	ImageData   *string   `json:"imageData"`
	ModelID     *uint     `json:"modelId"`
	Model       *MlModel  `json:"-" gorm:"foreignKey:ModelID"`
}

type Mineral struct {
	ID            uint                   `json:"id" gorm:"primaryKey"`
	ScanID        uint                   `json:"scanId" gorm:"not null;index" binding:"required"`
	Scan          *Scan                  `json:"-"`
	Name          string                 `json:"name" gorm:"not null" binding:"required"`
	Confidence    float64                `json:"confidence" binding:"gte=0,lte=1"`
	Composition   map[string]float64     `json:"composition" gorm:"serializer:json;type:text"`
	DetectionDate time.Time              `json:"detectionDate" gorm:"not null"`
	Properties    map[string]interface{} `json:"properties" gorm:"serializer:json;type:text"`
}

// ScanHistory records an action taken on a scan.
type ScanHistory struct {
	ID          uint                   `json:"id" gorm:"primaryKey"`
	ScanID      uint                   `json:"scanId" gorm:"not null;index" binding:"required"`
	Scan        *Scan                  `json:"-"`
	UserID      uint                   `json:"userId" gorm:"not null;index" binding:"required"`
	User        *User                  `json:"-"`
	Action      string                 `json:"action" gorm:"not null" binding:"required"`
	Timestamp   time.Time              `json:"timestamp" gorm:"not null;index"`
	Metadata    map[string]interface{} `json:"metadata" gorm:"serializer:json;type:text"`
	GeoLocation *string                `json:"geoLocation"`
}

func (ScanHistory) TableName() string {
	return "scan_history"
}

// Scan history actions
const (
	ActionCreated  = "created"
	ActionAnalyzed = "analyzed"
	ActionScanned  = "scanned"
)
