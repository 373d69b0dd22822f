package utils

import (
	"math/rand"
	"testing"
	"time"

	"aerogrow/models"

	"github.com/stretchr/testify/assert"
)

func alertKinds(alerts []Alert) []string {
	var kinds []string
	for _, a := range alerts {
		kinds = append(kinds, a.Kind)
	}
	return kinds
}

func TestEvaluateReading(t *testing.T) {
	normal := models.InitialSensorData(time.Now())
	assert.Empty(t, EvaluateReading(normal))
	assert.False(t, CheckAbnormality(normal))
	assert.Equal(t, "", GetAbnormalType(normal))

	bad := normal
	bad.WaterLevel = 35
	bad.ReservoirLevel = 150
	bad.PumpStatus = models.PumpWarning
	bad.Temperature = 27.5

	alerts := EvaluateReading(bad)
	assert.Equal(t, []string{AlertWaterLevel, AlertReservoir, AlertPump, AlertTemperature}, alertKinds(alerts))
	assert.Equal(t, models.LevelDanger, alerts[2].Level)
	assert.True(t, CheckAbnormality(bad))
	assert.Equal(t, "water_level|reservoir|pump|temperature", GetAbnormalType(bad))
}

func TestEvaluateReadingUsesPlantRange(t *testing.T) {
	r := models.InitialSensorData(time.Now())
	r.Temperature = 25.5

	r.PlantType = "mixed"
	assert.Empty(t, EvaluateReading(r))

	r.PlantType = "spinach"
	alerts := EvaluateReading(r)
	if assert.Len(t, alerts, 1) {
		assert.Equal(t, AlertTemperature, alerts[0].Kind)
		assert.Contains(t, alerts[0].Message, "spinach")
	}
}

func TestNewAlerts(t *testing.T) {
	prev := models.InitialSensorData(time.Now())
	next := prev
	next.WaterLevel = 39

	assert.Equal(t, []string{AlertWaterLevel}, alertKinds(NewAlerts(prev, next)))

	// The condition persists: nothing new to report.
	later := next
	later.WaterLevel = 38
	assert.Empty(t, NewAlerts(next, later))
}

func TestRandomNotification(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		n := RandomNotification(rng)
		assert.Contains(t, []string{models.LevelInfo, models.LevelWarning, models.LevelDanger}, n.Level)
		seen[n.Message] = true
	}
	assert.Len(t, seen, len(cannedNotifications))
}
