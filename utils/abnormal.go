package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"aerogrow/models"
)

// Alert kinds raised by EvaluateReading
const (
	AlertWaterLevel  = "water_level"
	AlertReservoir   = "reservoir"
	AlertPump        = "pump"
	AlertTemperature = "temperature"
)

// Alert is a threshold breach found in a reading.
type Alert struct {
	Kind    string
	Level   string
	Message string
}

// EvaluateReading returns every threshold the reading breaches.
func EvaluateReading(data models.SensorData) []Alert {
	var alerts []Alert

	if data.WaterLevel < 40 {
		alerts = append(alerts, Alert{
			Kind:    AlertWaterLevel,
			Level:   models.LevelWarning,
			Message: fmt.Sprintf("Water level at %.0f%%, consider refilling soon", data.WaterLevel),
		})
	}
	if data.ReservoirLevel < conservationReservoir {
		alerts = append(alerts, Alert{
			Kind:    AlertReservoir,
			Level:   models.LevelWarning,
			Message: fmt.Sprintf("Reservoir low: %.1f L remaining, flow reduced to conserve water", data.ReservoirLevel),
		})
	}
	if data.PumpStatus == models.PumpWarning {
		alerts = append(alerts, Alert{
			Kind:    AlertPump,
			Level:   models.LevelDanger,
			Message: "Pump warning: reservoir nearly empty",
		})
	}

	r := PlantRangeFor(data.PlantType)
	if data.Temperature < r.Min || data.Temperature > r.Max {
		alerts = append(alerts, Alert{
			Kind:    AlertTemperature,
			Level:   models.LevelWarning,
			Message: fmt.Sprintf("Temperature %.1f°C outside %s range (%.1f-%.1f°C)", data.Temperature, plantLabel(data.PlantType), r.Min, r.Max),
		})
	}
	return alerts
}

// CheckAbnormality determines whether the sensor data breaches any threshold.
func CheckAbnormality(data models.SensorData) bool {
	return len(EvaluateReading(data)) > 0
}

// GetAbnormalType returns the breached alert kinds joined with "|", or "" for a normal reading.
func GetAbnormalType(record models.SensorData) string {
	alerts := EvaluateReading(record)
	kinds := make([]string, 0, len(alerts))
	for _, a := range alerts {
		kinds = append(kinds, a.Kind)
	}
	return strings.Join(kinds, "|")
}

// NewAlerts returns the alerts of next whose kind was not already raised by prev,
// so a persisting condition is reported once.
func NewAlerts(prev, next models.SensorData) []Alert {
	seen := make(map[string]bool)
	for _, a := range EvaluateReading(prev) {
		seen[a.Kind] = true
	}

	var out []Alert
	for _, a := range EvaluateReading(next) {
		if !seen[a.Kind] {
			out = append(out, a)
		}
	}
	return out
}

var cannedNotifications = []models.Notification{
	{Level: models.LevelInfo, Message: "System performing routine maintenance"},
	{Level: models.LevelInfo, Message: "Fertilizer levels optimal"},
	{Level: models.LevelWarning, Message: "Water level below 40%, consider refilling soon"},
	{Level: models.LevelWarning, Message: "Nutrient imbalance detected in Tower 2"},
	{Level: models.LevelDanger, Message: "Critical temperature increase detected in greenhouse section 3"},
}

// RandomNotification picks one of the canned system notifications.
func RandomNotification(rng *rand.Rand) models.Notification {
	return cannedNotifications[rng.Intn(len(cannedNotifications))]
}

func plantLabel(plantType string) string {
	if plantType == "" {
		return DefaultPlant
	}
	return plantType
}
