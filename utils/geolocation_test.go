package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDistance(t *testing.T) {
	// London to Paris, roughly 344 km.
	d := CalculateDistance(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, 344000, d, 5000)

	// Same point is zero.
	assert.Equal(t, 0.0, CalculateDistance(51.5074, -0.1278, 51.5074, -0.1278))
}

func TestMetersToRadians(t *testing.T) {
	assert.InDelta(t, 5000.0/6378137.0, MetersToRadians(5000), 1e-12)
}

func TestIsValidCoordinate(t *testing.T) {
	assert.True(t, IsValidCoordinate(-0.1278, 51.5074))
	assert.True(t, IsValidCoordinate(180, 90))
	assert.True(t, IsValidCoordinate(-180, -90))
	assert.True(t, IsValidCoordinate(0, 0))

	assert.False(t, IsValidCoordinate(180.1, 0))
	assert.False(t, IsValidCoordinate(0, 90.1))
	assert.False(t, IsValidCoordinate(math.NaN(), 0))
	assert.False(t, IsValidCoordinate(0, math.NaN()))
	assert.False(t, IsValidCoordinate(math.Inf(1), 0))
	assert.False(t, IsValidCoordinate(0, math.Inf(-1)))
}
