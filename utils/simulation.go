package utils

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"aerogrow/models"
)

// Simulation constants
const (
	minutesPerInterval = 5.0
	surfaceAreaFactor  = 0.1 // m² of exposed water per tower section

	conservationReservoir = 200.0
	coolingDifferential   = 3.0
	maxFlowRate           = 10.0
	pumpWarningReservoir  = 5.0
	dimmedIntensity       = 40.0
)

// ErrUnknownCommand is returned for commands that address no known actuator.
var ErrUnknownCommand = errors.New("unknown command")

// WaterUsage is the outcome of one simulation interval of the water loop.
type WaterUsage struct {
	WaterUsed         float64
	WaterEvaporated   float64
	WaterCycled       float64
	AdjustedFlowRate  float64
	NewReservoirLevel float64
}

// CheckTemperature rounds to 0.1 °C and keeps the value in [18, 46.8].
func CheckTemperature(temp float64) float64 {
	rounded := round(temp, 1)
	if rounded >= 47.0 {
		return 46.8
	}
	return math.Min(46.8, math.Max(18.0, rounded))
}

// CalculateWaterUsage models one 5 minute interval: water cycled by the
// pump, evaporation driven by vapor pressure deficit, and the flow rate
// adjustment for conservation (low reservoir) or cooling (hot tower).
func CalculateWaterUsage(currentTemp, targetTemp, flowRate, reservoirLevel, humidity float64) WaterUsage {
	baseWaterCycled := flowRate * minutesPerInterval / 60
	tempDifferential := math.Max(0, currentTemp-targetTemp)
	coolingWater := tempDifferential * 0.25 * math.Sqrt(baseWaterCycled)

	// Magnus-Tetens saturation vapor pressure in hPa
	satVaporPressure := 6.1078 * math.Pow(10, (7.5*currentTemp)/(currentTemp+237.3))
	actualVaporPressure := satVaporPressure * (humidity / 100)
	vpd := satVaporPressure - actualVaporPressure

	tempFactor := math.Exp(0.05 * (currentTemp - 20))
	vpdFactor := math.Max(0, vpd*0.015)
	surfaceArea := surfaceAreaFactor * (1 + 0.1*tempDifferential)
	evaporated := vpdFactor * tempFactor * surfaceArea * minutesPerInterval

	adjusted := flowRate
	if reservoirLevel < conservationReservoir {
		adjusted = flowRate * (0.6 + reservoirLevel/500)
	} else if tempDifferential > coolingDifferential {
		adjusted = math.Min(maxFlowRate, flowRate*(1+tempDifferential/10))
	}

	return WaterUsage{
		WaterUsed:         evaporated,
		WaterEvaporated:   evaporated,
		WaterCycled:       baseWaterCycled + coolingWater,
		AdjustedFlowRate:  adjusted,
		NewReservoirLevel: math.Max(0, reservoirLevel-evaporated),
	}
}

// AdjustLighting raises intensity when the tower is too cold, lowers it
// when too hot and otherwise applies a small jitter.
func AdjustLighting(currentTemp, targetTemp, intensity float64, rng *rand.Rand) float64 {
	switch {
	case currentTemp < targetTemp-2:
		return math.Min(100, intensity+5)
	case currentTemp > targetTemp+2:
		return math.Max(30, intensity-8)
	default:
		return clamp(intensity+(rng.Float64()*4-2), 30, 100)
	}
}

// NextReading derives the reading that follows current after one tick.
// plantType and controlActive come from the automation setting.
func NextReading(current models.SensorData, plantType string, controlActive bool, now time.Time, rng *rand.Rand) models.SensorData {
	if plantType == "" {
		plantType = current.PlantType
	}
	if !KnownPlant(plantType) {
		plantType = DefaultPlant
	}
	target := PlantRangeFor(plantType).Optimal

	temp := current.Temperature + (rng.Float64()*0.6 - 0.3)
	if controlActive {
		if temp > target+0.5 {
			temp -= 0.4 // cooling from increased water flow
		} else if temp < target-0.5 {
			temp += 0.3 // heating from increased lighting
		}
	}
	temp = CheckTemperature(temp)

	usage := CalculateWaterUsage(temp, target, current.WaterFlowRate, current.ReservoirLevel, current.Humidity)
	intensity := AdjustLighting(temp, target, current.LightIntensity, rng)

	pump := models.PumpActive
	if usage.NewReservoirLevel <= pumpWarningReservoir {
		pump = models.PumpWarning
	}
	light := models.LightOn
	if intensity <= dimmedIntensity {
		light = models.LightDimmed
	}

	return models.SensorData{
		Timestamp:                  now.UTC(),
		Temperature:                temp,
		Humidity:                   round(clamp(current.Humidity+(rng.Float64()*3-1.5), 30, 100), 0),
		WaterLevel:                 round(clamp(current.WaterLevel-rng.Float64()*0.3, 0, 100), 0),
		NutrientLevel:              round(clamp(current.NutrientLevel-rng.Float64()*0.2, 0, 100), 0),
		PumpStatus:                 pump,
		LightStatus:                light,
		ReservoirLevel:             round(usage.NewReservoirLevel, 1),
		WaterUsed:                  round(current.WaterUsed+usage.WaterUsed, 1),
		WaterEvaporated:            round(current.WaterEvaporated+usage.WaterEvaporated, 1),
		WaterCycled:                round(usage.WaterCycled, 1),
		TemperatureSetPoint:        round(target, 1),
		IsTemperatureControlActive: controlActive,
		LightIntensity:             round(intensity, 0),
		WaterFlowRate:              round(usage.AdjustedFlowRate, 1),
		PlantType:                  plantType,
	}
}

// ApplyCommand returns a copy of current with the actuator command applied
// and the activity description to record for it. The copy has no ID.
func ApplyCommand(current models.SensorData, target, action string) (models.SensorData, string, error) {
	next := current
	next.ID = 0

	switch target {
	case "pump":
		switch action {
		case "start":
			next.PumpStatus = models.PumpActive
			return next, "Pump turned on by user", nil
		case "stop":
			next.PumpStatus = models.PumpInactive
			return next, "Pump turned off by user", nil
		}
	case "light":
		switch action {
		case "on":
			next.LightStatus = models.LightOn
			return next, "Lights turned on by user", nil
		case "off":
			next.LightStatus = models.LightOff
			return next, "Lights turned off by user", nil
		}
	}
	return current, "", fmt.Errorf("%w: %s %s", ErrUnknownCommand, target, action)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
