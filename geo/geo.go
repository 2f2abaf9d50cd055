package geo

import (
	"fmt"
	"math"
)

const earthRadiusM = 6371000.0

// Haversine returns the great-circle distance in meters between two
// coordinate pairs. Used for geofence comparisons.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// WithinRadius reports whether the point is inside the geofence.
func WithinRadius(lat, lng, centerLat, centerLng, radiusM float64) bool {
	return Haversine(lat, lng, centerLat, centerLng) <= radiusM
}

// FormatCoordinates is the fallback location string when reverse geocoding
// is unavailable.
func FormatCoordinates(lat, lng float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lng)
}
