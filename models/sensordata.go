package models

import "time"

// Pump and light states reported in SensorData
const (
	PumpActive   = "active"
	PumpInactive = "inactive"
	PumpWarning  = "warning"

	LightOn     = "on"
	LightOff    = "off"
	LightDimmed = "dimmed"
)

// SensorData is one telemetry snapshot of the grow system. The newest row
// by timestamp is the current reading.
type SensorData struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Timestamp     time.Time `json:"timestamp" gorm:"not null;index"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	WaterLevel    float64   `json:"waterLevel"`
	NutrientLevel float64   `json:"nutrientLevel"`
	PumpStatus    string    `json:"pumpStatus" gorm:"not null"`
	LightStatus   string    `json:"lightStatus" gorm:"not null"`

	// Water tracking
	ReservoirLevel  float64 `json:"reservoirLevel"`
	WaterUsed       float64 `json:"waterUsed"`
	WaterEvaporated float64 `json:"waterEvaporated"`
	WaterCycled     float64 `json:"waterCycled"`

	// Temperature control
	TemperatureSetPoint        float64 `json:"temperatureSetPoint"`
	IsTemperatureControlActive bool    `json:"isTemperatureControlActive"`
	LightIntensity             float64 `json:"lightIntensity"`
	WaterFlowRate              float64 `json:"waterFlowRate"`
	PlantType                  string  `json:"plantType" gorm:"not null"`

	// IsAbnormal is set when the reading breaches any alert threshold.
	IsAbnormal bool `json:"isAbnormal" gorm:"index"`
}

// InitialSensorData returns the reading a fresh installation starts from.
func InitialSensorData(now time.Time) SensorData {
	return SensorData{
		Timestamp:                  now.UTC(),
		Temperature:                23.5,
		Humidity:                   68,
		WaterLevel:                 85,
		NutrientLevel:              76,
		PumpStatus:                 PumpActive,
		LightStatus:                LightOn,
		ReservoirLevel:             1000,
		TemperatureSetPoint:        24.0,
		IsTemperatureControlActive: true,
		LightIntensity:             75,
		WaterFlowRate:              3.5,
		PlantType:                  "mixed",
	}
}
