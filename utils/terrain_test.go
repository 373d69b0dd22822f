package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateElevationGrid(t *testing.T) {
	grid := GenerateElevationGrid(DefaultGridSize)
	require.Len(t, grid, DefaultGridSize)
	for _, row := range grid {
		require.Len(t, row, DefaultGridSize)
	}

	// At the centre every term but the fault vanishes.
	centre := grid[60][60]
	assert.InDelta(t, BaseElevation+3*math.Sin(math.Pi/4), centre, 1e-9)

	// grid[0][0] sits at x = y = -6 km.
	x, y := -6.0, -6.0
	want := BaseElevation +
		15*math.Sin(x*0.3+y*0.2) -
		8*math.Abs(math.Sin(x*0.2))*math.Abs(math.Cos(y*0.25)) +
		5*math.Sin(x*0.5)*math.Cos(y*0.4) +
		3*math.Sin(x*0.1+math.Pi/4)
	assert.InDelta(t, want, grid[0][0], 1e-9)
}

func TestElevationStats(t *testing.T) {
	stats := ElevationStats(GenerateElevationGrid(DefaultGridSize))
	assert.GreaterOrEqual(t, stats.Min, 179.0)
	assert.LessOrEqual(t, stats.Max, 233.0)
	assert.Less(t, stats.Min, stats.Mean)
	assert.Less(t, stats.Mean, stats.Max)

	assert.Equal(t, ElevationSummary{}, ElevationStats(nil))
	assert.Equal(t, ElevationSummary{Min: 1, Max: 3, Mean: 2}, ElevationStats([][]float64{{1, 3}, {2}}))
}
