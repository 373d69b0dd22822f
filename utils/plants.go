package utils

import "sort"

// DefaultPlant is the profile used when a plant type is unknown.
const DefaultPlant = "mixed"

// PlantRange is a temperature profile in °C.
type PlantRange struct {
	Min     float64 `json:"min"`
	Optimal float64 `json:"optimal"`
	Max     float64 `json:"max"`
}

var plantTemperatureRanges = map[string]PlantRange{
	"lettuce":    {Min: 18.0, Optimal: 21.0, Max: 24.0},
	"basil":      {Min: 20.0, Optimal: 24.0, Max: 27.0},
	"strawberry": {Min: 18.0, Optimal: 22.0, Max: 26.0},
	"tomato":     {Min: 21.0, Optimal: 25.0, Max: 29.0},
	"pepper":     {Min: 22.0, Optimal: 26.0, Max: 30.0},
	"cucumber":   {Min: 21.0, Optimal: 24.0, Max: 28.0},
	"kale":       {Min: 16.0, Optimal: 19.0, Max: 23.0},
	"spinach":    {Min: 16.0, Optimal: 18.0, Max: 22.0},
	"mixed":      {Min: 18.0, Optimal: 23.2, Max: 26.0},
}

// PlantRangeFor returns the profile for plantType, falling back to mixed.
func PlantRangeFor(plantType string) PlantRange {
	if r, ok := plantTemperatureRanges[plantType]; ok {
		return r
	}
	return plantTemperatureRanges[DefaultPlant]
}

func KnownPlant(plantType string) bool {
	_, ok := plantTemperatureRanges[plantType]
	return ok
}

// PlantTypes lists the known plant types in alphabetical order.
func PlantTypes() []string {
	out := make([]string, 0, len(plantTemperatureRanges))
	for name := range plantTemperatureRanges {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
