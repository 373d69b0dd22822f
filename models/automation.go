package models

// AutomationSetting stores the plant profile and climate control switch
// that drive the telemetry simulation. A single row with ID 1 exists.
type AutomationSetting struct {
	ID                 uint   `json:"id" gorm:"primaryKey"`
	PlantType          string `json:"plantType" gorm:"not null"`
	TemperatureControl bool   `json:"temperatureControl"`
}
