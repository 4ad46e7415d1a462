package spatial

import (
	"github.com/golang/geo/s2"
	"github.com/qpath-optimizer/backend/internal/models"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
)

func latLng(p models.Point) s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lng)
}

func fromLatLng(ll s2.LatLng) models.Point {
	return models.Point{Lat: ll.Lat.Degrees(), Lng: ll.Lng.Degrees()}
}

// Distance returns the great-circle distance between two points in meters
func Distance(a, b models.Point) float64 {
	return latLng(a).Distance(latLng(b)).Radians() * EarthRadiusMeters
}

// PathLength sums the great-circle length of every leg of path, in meters
func PathLength(path []models.Point) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += Distance(path[i-1], path[i])
	}
	return total
}

// Interpolate returns n evenly spaced points strictly between a and b along the great circle
func Interpolate(a, b models.Point, n int) []models.Point {
	if n <= 0 {
		return []models.Point{}
	}
	pa := s2.PointFromLatLng(latLng(a))
	pb := s2.PointFromLatLng(latLng(b))

	out := make([]models.Point, 0, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n+1)
		out = append(out, fromLatLng(s2.LatLngFromPoint(s2.Interpolate(t, pa, pb))))
	}
	return out
}
