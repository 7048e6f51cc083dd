package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine_ZeroAtSamePoint(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{48.8566, 2.3522},
		{-45.0, 170.5},
		{90, 0},
	}
	for _, p := range points {
		assert.Equal(t, float64(0), Haversine(p[0], p[1], p[0], p[1]))
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	d1 := Haversine(48.8566, 2.3522, 47.4784, -0.5632)
	d2 := Haversine(47.4784, -0.5632, 48.8566, 2.3522)
	assert.Equal(t, d1, d2)
}

func TestHaversine_ParisToAngers(t *testing.T) {
	// Paris → Angers, a known reference distance.
	d := Haversine(48.8566, 2.3522, 47.4784, -0.5632)
	assert.InDelta(t, 292.3, d, 1.0)
}

func TestHaversine_NonNegative(t *testing.T) {
	d := Haversine(-89.9, -179.9, 89.9, 179.9)
	assert.Greater(t, d, float64(0))
}
