package utils

import (
	"math"
	"math/rand"
	"time"

	"aerogrow/models"
)

// FacilityProfile describes the climate a facility type is kept in.
type FacilityProfile struct {
	BaseTemperature   float64
	BaseHumidity      float64
	TemperatureMin    float64
	TemperatureMax    float64
	HumidityMin       float64
	HumidityMax       float64
	SeasonalVariation float64
	ClimateType       string
}

var facilityProfiles = map[string]FacilityProfile{
	"greenhouse": {24, 65, 18, 30, 50, 80, 3, "controlled"},
	"warehouse":  {20, 45, 15, 25, 35, 55, 5, "semi-controlled"},
	"processing": {18, 40, 16, 22, 35, 50, 2, "controlled"},
	"research":   {22, 50, 20, 26, 45, 60, 1, "controlled"},
}

type locationFactor struct {
	tempOffset     float64
	humidityOffset float64
}

var locationFactors = map[string]locationFactor{
	"San Francisco, CA": {-2, 15},
	"Austin, TX":        {4, -10},
	"Seattle, WA":       {-3, 20},
	"Denver, CO":        {-1, -15},
	"Phoenix, AZ":       {8, -25},
	"Portland, OR":      {-2, 18},
	"Miami, FL":         {6, 25},
	"Boston, MA":        {-4, 5},
	"Chicago, IL":       {-3, 0},
	"Los Angeles, CA":   {2, -5},
}

const (
	defaultFacilityType = "greenhouse"
	defaultLocation     = "San Francisco, CA"
	seasonPeriod        = 30 * 24 * time.Hour
)

// FacilityEnvironment is the ambient climate computed for one facility.
type FacilityEnvironment struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	CO2Level    float64 `json:"co2Level"`
	LightLevel  float64 `json:"lightLevel"`
}

// CalculateFacilityEnvironment combines the facility profile, the city
// offset, random jitter and a 30 day seasonal swing, clamped to the
// profile's ranges. Unknown facility types use the greenhouse profile.
func CalculateFacilityEnvironment(facilityType, location string, now time.Time, rng *rand.Rand) FacilityEnvironment {
	profile, ok := facilityProfiles[facilityType]
	if !ok {
		profile = facilityProfiles[defaultFacilityType]
	}
	factor := locationFactors[location]

	temperature := profile.BaseTemperature + factor.tempOffset + (rng.Float64()*4 - 2)
	humidity := profile.BaseHumidity + factor.humidityOffset + (rng.Float64()*10 - 5)

	seasonal := math.Sin(float64(now.UnixMilli())/float64(seasonPeriod.Milliseconds())) * profile.SeasonalVariation
	temperature += seasonal

	temperature = clamp(temperature, profile.TemperatureMin, profile.TemperatureMax)
	humidity = clamp(humidity, profile.HumidityMin, profile.HumidityMax)

	var co2 float64
	switch facilityType {
	case "greenhouse":
		co2 = 800 + rng.Float64()*400
	case "processing":
		co2 = 350 + rng.Float64()*100
	case "research":
		co2 = 400 + rng.Float64()*200
	default:
		co2 = 400 + rng.Float64()*150
	}

	hour := now.Hour()
	isDay := hour >= 6 && hour <= 18

	light := 300.0
	switch facilityType {
	case "greenhouse":
		if isDay {
			light = 600 + rng.Float64()*400
		} else {
			light = 200 + rng.Float64()*100
		}
	case "warehouse":
		light = 200 + rng.Float64()*100
	case "processing":
		light = 400 + rng.Float64()*200
	case "research":
		light = 500 + rng.Float64()*300
	}

	return FacilityEnvironment{
		Temperature: round(temperature, 1),
		Humidity:    math.Round(humidity),
		CO2Level:    math.Round(co2),
		LightLevel:  math.Round(light),
	}
}

// FacilitySensorReading is the per-tower entry of the facility sensor view.
type FacilitySensorReading struct {
	TowerID   uint   `json:"towerId"`
	TowerName string `json:"towerName"`
	FacilityEnvironment
	WaterLevel   int       `json:"waterLevel"`
	PHLevel      float64   `json:"phLevel"`
	SoilMoisture int       `json:"soilMoisture"`
	EnergyUsage  int       `json:"energyUsage"`
	Timestamp    time.Time `json:"timestamp"`
}

// FacilityReading builds the facility view entry for a tower. The tower
// type selects the facility profile and the tower location the city offset.
func FacilityReading(tower models.Tower, now time.Time, rng *rand.Rand) FacilitySensorReading {
	location := defaultLocation
	if tower.Location != nil && *tower.Location != "" {
		location = *tower.Location
	}
	facilityType := tower.Type
	if facilityType == "" {
		facilityType = defaultFacilityType
	}

	env := CalculateFacilityEnvironment(facilityType, location, now, rng)
	return FacilitySensorReading{
		TowerID:             tower.ID,
		TowerName:           tower.Name,
		FacilityEnvironment: env,
		WaterLevel:          clampInt(60+rng.Intn(20), 20, 80),
		PHLevel:             round(6.0+rng.Float64(), 2),
		SoilMoisture:        clampInt(50+rng.Intn(20), 30, 70),
		EnergyUsage:         200 + rng.Intn(200),
		Timestamp:           now.UTC(),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
