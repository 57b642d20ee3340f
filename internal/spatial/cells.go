package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is Earth's mean radius
const EarthRadiusMeters = 6371000.0

// ValidCoordinate reports whether lat/lng are finite and in range
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// CellID returns the S2 cell containing lat/lng at the given level (0-30)
func CellID(lat, lng float64, level int) s2.CellID {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng)).Parent(level)
}

// CellCenter returns the centre of a cell in degrees, rounded to 6 decimals so
// equal cells always produce equal coordinates
func CellCenter(id s2.CellID) (float64, float64) {
	ll := id.LatLng()
	return round6(ll.Lat.Degrees()), round6(ll.Lng.Degrees())
}

// HaversineDistance returns the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
