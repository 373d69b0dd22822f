package models

import "time"

// Tower addressing modes
const (
	AddressingColumn = "column"
	AddressingPod    = "pod"
	AddressingNone   = "none"
)

// Tower is a vertical growing structure. FacilityID groups towers of the
// same site for the facility sensor view.
type Tower struct {
	ID                     uint       `json:"id" gorm:"primaryKey"`
	Name                   string     `json:"name" gorm:"not null" binding:"required"`
	Type                   string     `json:"type" gorm:"not null" binding:"required"`
	Status                 string     `json:"status" gorm:"not null;default:active"`
	Location               *string    `json:"location"`
	FacilityID             *uint      `json:"facilityId" gorm:"index"`
	TotalColumns           int        `json:"totalColumns"`
	TotalPods              int        `json:"totalPods"`
	AddressingType         string     `json:"addressingType" gorm:"not null;default:none" binding:"omitempty,oneof=column pod none"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
	PlantCapacity          int        `json:"plantCapacity"`
	CurrentOccupancy       int        `json:"currentOccupancy"`
	MaintenanceSchedule    *string    `json:"maintenanceSchedule"`
	LastMaintenanceDate    *time.Time `json:"lastMaintenanceDate"`
	NutrientProfile        *string    `json:"nutrientProfile"`
	LightingSchedule       *string    `json:"lightingSchedule"`
	WaterUsageRate         *float64   `json:"waterUsageRate"`
	EnergyEfficiencyRating *string    `json:"energyEfficiencyRating"`
	Notes                  *string    `json:"notes"`
}
