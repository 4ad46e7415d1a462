package spatial

import (
	"github.com/golang/geo/s2"
	"github.com/qpath-optimizer/backend/internal/models"
)

// BoundingRect returns the smallest lat/lng rectangle holding every point.
// ok is false for an empty slice.
func BoundingRect(points []models.Point) (rect s2.Rect, ok bool) {
	if len(points) == 0 {
		return s2.EmptyRect(), false
	}
	rect = s2.RectFromLatLng(latLng(points[0]))
	for _, p := range points[1:] {
		rect = rect.AddPoint(latLng(p))
	}
	return rect, true
}

// Center returns the center of the bounding rectangle of points,
// or fallback when there are none.
func Center(points []models.Point, fallback models.Point) models.Point {
	rect, ok := BoundingRect(points)
	if !ok {
		return fallback
	}
	return fromLatLng(rect.Center())
}

// Contains reports whether p lies inside the rectangle described by b.
// Zero-valued edges are treated as unbounded.
func Contains(b models.Bounds, p models.Point) bool {
	if b.MinLat != 0 && p.Lat < b.MinLat {
		return false
	}
	if b.MaxLat != 0 && p.Lat > b.MaxLat {
		return false
	}
	if b.MinLng != 0 && p.Lng < b.MinLng {
		return false
	}
	if b.MaxLng != 0 && p.Lng > b.MaxLng {
		return false
	}
	return true
}
