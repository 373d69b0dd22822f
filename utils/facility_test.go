package utils

import (
	"math/rand"
	"testing"
	"time"

	"aerogrow/models"

	"github.com/stretchr/testify/assert"
)

func TestCalculateFacilityEnvironmentRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	night := time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)

	for facility, profile := range facilityProfiles {
		for location := range locationFactors {
			env := CalculateFacilityEnvironment(facility, location, day, rng)
			assert.GreaterOrEqual(t, env.Temperature, profile.TemperatureMin, facility)
			assert.LessOrEqual(t, env.Temperature, profile.TemperatureMax, facility)
			assert.GreaterOrEqual(t, env.Humidity, profile.HumidityMin, facility)
			assert.LessOrEqual(t, env.Humidity, profile.HumidityMax, facility)
		}
	}

	for i := 0; i < 50; i++ {
		gh := CalculateFacilityEnvironment("greenhouse", "Austin, TX", day, rng)
		assert.GreaterOrEqual(t, gh.CO2Level, 800.0)
		assert.LessOrEqual(t, gh.CO2Level, 1200.0)
		assert.GreaterOrEqual(t, gh.LightLevel, 600.0)

		ghNight := CalculateFacilityEnvironment("greenhouse", "Austin, TX", night, rng)
		assert.LessOrEqual(t, ghNight.LightLevel, 300.0)

		proc := CalculateFacilityEnvironment("processing", "Boston, MA", day, rng)
		assert.LessOrEqual(t, proc.CO2Level, 450.0)
	}
}

func TestCalculateFacilityEnvironmentFallbacks(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// Unknown facility type uses the greenhouse climate ranges but the
	// generic CO2 band.
	env := CalculateFacilityEnvironment("vertical", "Nowhere", now, rand.New(rand.NewSource(2)))
	assert.GreaterOrEqual(t, env.Temperature, 18.0)
	assert.LessOrEqual(t, env.Temperature, 30.0)
	assert.GreaterOrEqual(t, env.CO2Level, 400.0)
	assert.LessOrEqual(t, env.CO2Level, 550.0)
	assert.Equal(t, 300.0, env.LightLevel)
}

func TestFacilityReading(t *testing.T) {
	loc := "Phoenix, AZ"
	tower := models.Tower{ID: 4, Name: "North", Type: "greenhouse", Location: &loc}
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(4))

	for i := 0; i < 50; i++ {
		r := FacilityReading(tower, now, rng)
		assert.Equal(t, uint(4), r.TowerID)
		assert.Equal(t, "North", r.TowerName)
		assert.GreaterOrEqual(t, r.WaterLevel, 60)
		assert.LessOrEqual(t, r.WaterLevel, 79)
		assert.GreaterOrEqual(t, r.PHLevel, 6.0)
		assert.LessOrEqual(t, r.PHLevel, 7.0)
		assert.GreaterOrEqual(t, r.SoilMoisture, 50)
		assert.LessOrEqual(t, r.SoilMoisture, 69)
		assert.GreaterOrEqual(t, r.EnergyUsage, 200)
		assert.Less(t, r.EnergyUsage, 400)
		assert.Equal(t, now, r.Timestamp)
	}
}
