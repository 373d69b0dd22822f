package models

import "time"

type Device struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	Name              string     `json:"name" gorm:"not null" binding:"required"`
	Type              string     `json:"type" gorm:"not null" binding:"required"`
	Status            string     `json:"status" gorm:"not null;default:offline"`
	LastSeen          *time.Time `json:"lastSeen"`
	Location          *string    `json:"location"`
	TowerID           *uint      `json:"towerId" gorm:"index"`
	Tower             *Tower     `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Column            *int       `json:"column"`
	Pod               *int       `json:"pod"`
	IPAddress         *string    `json:"ipAddress"`
	MACAddress        *string    `json:"macAddress"`
	FirmwareVersion   *string    `json:"firmwareVersion"`
	BatteryLevel      *int       `json:"batteryLevel" binding:"omitempty,gte=0,lte=100"`
	MaintenanceStatus *string    `json:"maintenanceStatus"`
	AlertThreshold    *float64   `json:"alertThreshold"`
	Manufacturer      *string    `json:"manufacturer"`
	ModelNumber       *string    `json:"modelNumber"`
	InstallationDate  *time.Time `json:"installationDate"`
}
