package utils

import "math"

// Terrain constants for the Bendigo height field
const (
	BaseElevation      = 210.0
	DefaultGridSize    = 120
	MaxGridSize        = 512
	gridCellKilometers = 0.1
)

// GenerateElevationGrid returns a size×size height field in metres. Row i
// and column j map to x and y offsets from the grid centre in kilometres.
func GenerateElevationGrid(size int) [][]float64 {
	grid := make([][]float64, size)
	half := float64(size) / 2

	for i := 0; i < size; i++ {
		row := make([]float64, size)
		x := (float64(i) - half) * gridCellKilometers
		for j := 0; j < size; j++ {
			y := (float64(j) - half) * gridCellKilometers

			// NE-SW ridge system and creek valleys
			ridge := 15 * math.Sin(x*0.3+y*0.2)
			valley := -8 * math.Abs(math.Sin(x*0.2)) * math.Abs(math.Cos(y*0.25))
			local := 5 * math.Sin(x*0.5) * math.Cos(y*0.4)
			fault := 3 * math.Sin(x*0.1+math.Pi/4)

			row[j] = BaseElevation + ridge + valley + local + fault
		}
		grid[i] = row
	}
	return grid
}

// ElevationSummary holds the extremes and mean of a height field.
type ElevationSummary struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

func ElevationStats(grid [][]float64) ElevationSummary {
	var (
		summary = ElevationSummary{Min: math.Inf(1), Max: math.Inf(-1)}
		sum     float64
		n       int
	)
	for _, row := range grid {
		for _, v := range row {
			summary.Min = math.Min(summary.Min, v)
			summary.Max = math.Max(summary.Max, v)
			sum += v
			n++
		}
	}
	if n == 0 {
		return ElevationSummary{}
	}
	summary.Mean = sum / float64(n)
	return summary
}
