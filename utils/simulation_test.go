package utils

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"aerogrow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTemperature(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{23.46, 23.5},
		{46.94, 46.8},
		{46.96, 46.8},
		{52.0, 46.8},
		{12.0, 18.0},
		{18.04, 18.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, CheckTemperature(tt.in), 1e-9, "input %v", tt.in)
	}
}

func TestCalculateWaterUsage(t *testing.T) {
	t.Run("steady state", func(t *testing.T) {
		u := CalculateWaterUsage(23.2, 23.2, 3.5, 1000, 68)
		assert.InDelta(t, 3.5*5.0/60, u.WaterCycled, 1e-9)
		assert.Equal(t, 3.5, u.AdjustedFlowRate)
		assert.Greater(t, u.WaterEvaporated, 0.0)
		assert.Equal(t, u.WaterEvaporated, u.WaterUsed)
		assert.InDelta(t, 1000-u.WaterUsed, u.NewReservoirLevel, 1e-9)
	})

	t.Run("saturated air does not evaporate", func(t *testing.T) {
		u := CalculateWaterUsage(25, 23.2, 3.5, 1000, 100)
		assert.Equal(t, 0.0, u.WaterEvaporated)
	})

	t.Run("cooling mode raises flow", func(t *testing.T) {
		u := CalculateWaterUsage(30, 23.2, 3.5, 1000, 60)
		diff := 30 - 23.2
		assert.InDelta(t, 3.5*(1+diff/10), u.AdjustedFlowRate, 1e-9)
		base := 3.5 * 5.0 / 60
		assert.InDelta(t, base+diff*0.25*math.Sqrt(base), u.WaterCycled, 1e-9)
	})

	t.Run("cooling flow is capped", func(t *testing.T) {
		u := CalculateWaterUsage(46.8, 18, 9, 1000, 60)
		assert.Equal(t, 10.0, u.AdjustedFlowRate)
	})

	t.Run("conservation mode reduces flow", func(t *testing.T) {
		u := CalculateWaterUsage(30, 23.2, 3.5, 100, 60)
		assert.InDelta(t, 3.5*(0.6+100.0/500), u.AdjustedFlowRate, 1e-9)
	})

	t.Run("reservoir never negative", func(t *testing.T) {
		u := CalculateWaterUsage(46.8, 18, 3.5, 0.01, 30)
		assert.Equal(t, 0.0, u.NewReservoirLevel)
	})
}

func TestAdjustLighting(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	assert.Equal(t, 80.0, AdjustLighting(18, 23.2, 75, rng))
	assert.Equal(t, 100.0, AdjustLighting(18, 23.2, 98, rng))
	assert.Equal(t, 67.0, AdjustLighting(28, 23.2, 75, rng))
	assert.Equal(t, 30.0, AdjustLighting(28, 23.2, 33, rng))

	for i := 0; i < 100; i++ {
		v := AdjustLighting(23.2, 23.2, 75, rng)
		assert.GreaterOrEqual(t, v, 73.0)
		assert.LessOrEqual(t, v, 77.0)
	}
	assert.GreaterOrEqual(t, AdjustLighting(23.2, 23.2, 30, rng), 30.0)
}

func TestNextReadingBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	current := models.InitialSensorData(now)

	for i := 0; i < 500; i++ {
		now = now.Add(5 * time.Second)
		next := NextReading(current, "mixed", true, now, rng)

		require.GreaterOrEqual(t, next.Temperature, 18.0)
		require.LessOrEqual(t, next.Temperature, 46.8)
		require.GreaterOrEqual(t, next.Humidity, 30.0)
		require.LessOrEqual(t, next.Humidity, 100.0)
		require.GreaterOrEqual(t, next.WaterLevel, 0.0)
		require.GreaterOrEqual(t, next.NutrientLevel, 0.0)
		require.GreaterOrEqual(t, next.ReservoirLevel, 0.0)
		require.LessOrEqual(t, next.ReservoirLevel, current.ReservoirLevel)
		require.GreaterOrEqual(t, next.WaterUsed, current.WaterUsed)
		require.GreaterOrEqual(t, next.LightIntensity, 30.0)
		require.LessOrEqual(t, next.LightIntensity, 100.0)
		require.Equal(t, 23.2, next.TemperatureSetPoint)
		require.Equal(t, now, next.Timestamp)
		require.Zero(t, next.ID)

		current = next
	}

	// Control keeps the mixed profile close to its optimum.
	assert.InDelta(t, 23.2, current.Temperature, 1.5)
}

func TestNextReadingUsesAutomationPlant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	current := models.InitialSensorData(time.Now())

	next := NextReading(current, "kale", true, time.Now(), rng)
	assert.Equal(t, "kale", next.PlantType)
	assert.Equal(t, 19.0, next.TemperatureSetPoint)

	next = NextReading(current, "cactus", false, time.Now(), rng)
	assert.Equal(t, DefaultPlant, next.PlantType)
	assert.False(t, next.IsTemperatureControlActive)
}

func TestNextReadingStatuses(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	current := models.InitialSensorData(time.Now())
	current.ReservoirLevel = 1
	current.LightIntensity = 31
	current.Temperature = 30

	next := NextReading(current, "mixed", true, time.Now(), rng)
	assert.Equal(t, models.PumpWarning, next.PumpStatus)
	assert.Equal(t, models.LightDimmed, next.LightStatus)
}

func TestApplyCommand(t *testing.T) {
	current := models.InitialSensorData(time.Now())
	current.ID = 12

	next, desc, err := ApplyCommand(current, "pump", "stop")
	require.NoError(t, err)
	assert.Equal(t, models.PumpInactive, next.PumpStatus)
	assert.Equal(t, "Pump turned off by user", desc)
	assert.Zero(t, next.ID)
	assert.Equal(t, uint(12), current.ID)

	next, desc, err = ApplyCommand(current, "pump", "start")
	require.NoError(t, err)
	assert.Equal(t, models.PumpActive, next.PumpStatus)
	assert.Equal(t, "Pump turned on by user", desc)

	next, desc, err = ApplyCommand(current, "light", "off")
	require.NoError(t, err)
	assert.Equal(t, models.LightOff, next.LightStatus)
	assert.Equal(t, "Lights turned off by user", desc)

	_, _, err = ApplyCommand(current, "heater", "on")
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, _, err = ApplyCommand(current, "light", "blink")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}
