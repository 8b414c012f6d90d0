package utils

import "math"

const (
	// EarthRadiusMeters matches the sphere radius MongoDB uses for
	// $centerSphere distance conversion.
	EarthRadiusMeters = 6378137.0
)

// CalculateDistance returns the haversine distance in meters between two
// coordinate pairs.
func CalculateDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// MetersToRadians converts a radius in meters to radians for use with
// $centerSphere queries.
func MetersToRadians(meters float64) float64 {
	return meters / EarthRadiusMeters
}

// IsValidCoordinate reports whether lng/lat form a usable WGS84 position.
func IsValidCoordinate(lng, lat float64) bool {
	if math.IsNaN(lng) || math.IsNaN(lat) || math.IsInf(lng, 0) || math.IsInf(lat, 0) {
		return false
	}
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
