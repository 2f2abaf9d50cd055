package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lng1 float64
		lat2, lng2 float64
		expectedM  float64
		toleranceM float64
	}{
		{
			name: "Same point",
			lat1: -33.8688, lng1: 151.2093,
			lat2: -33.8688, lng2: 151.2093,
			expectedM: 0, toleranceM: 0.1,
		},
		{
			name: "Sydney CBD to Opera House",
			lat1: -33.8688, lng1: 151.2093,
			lat2: -33.8568, lng2: 151.2153,
			expectedM: 1449, toleranceM: 50,
		},
		{
			name: "Sydney to Melbourne",
			lat1: -33.8688, lng1: 151.2093,
			lat2: -37.8136, lng2: 144.9631,
			expectedM: 713000, toleranceM: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Haversine(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.expectedM, d, tt.toleranceM)
		})
	}
}

func TestWithinRadius(t *testing.T) {
	// ~111m per 0.001 degree of latitude.
	center := struct{ lat, lng float64 }{-33.8688, 151.2093}

	assert.True(t, WithinRadius(center.lat, center.lng, center.lat, center.lng, 1))
	assert.True(t, WithinRadius(center.lat+0.001, center.lng, center.lat, center.lng, 250))
	assert.False(t, WithinRadius(center.lat+0.01, center.lng, center.lat, center.lng, 250))
}

func TestFormatCoordinates(t *testing.T) {
	assert.Equal(t, "-33.868800, 151.209300", FormatCoordinates(-33.8688, 151.2093))
}
