package spatial

import (
	"math"
	"testing"

	"github.com/qpath-optimizer/backend/internal/models"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	a := models.Point{Lat: 0, Lng: 0}
	b := models.Point{Lat: 0, Lng: 1}
	want := EarthRadiusMeters * math.Pi / 180

	if got := Distance(a, b); math.Abs(got-want) > 1 {
		t.Fatalf("Distance = %f, want %f", got, want)
	}
	if got := Distance(a, a); got != 0 {
		t.Fatalf("Distance to self = %f", got)
	}
}

func TestPathLength(t *testing.T) {
	t.Parallel()

	path := []models.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 0, Lng: 2}}
	want := 2 * EarthRadiusMeters * math.Pi / 180

	if got := PathLength(path); math.Abs(got-want) > 1 {
		t.Fatalf("PathLength = %f, want %f", got, want)
	}
	if got := PathLength(path[:1]); got != 0 {
		t.Fatalf("single point length = %f", got)
	}
}

func TestInterpolate(t *testing.T) {
	t.Parallel()

	a := models.Point{Lat: 0, Lng: 0}
	b := models.Point{Lat: 0, Lng: 4}
	got := Interpolate(a, b, 3)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []float64{1, 2, 3} {
		if math.Abs(got[i].Lng-want) > 1e-9 || math.Abs(got[i].Lat) > 1e-9 {
			t.Fatalf("point %d = %+v, want lng %f", i, got[i], want)
		}
	}
	if len(Interpolate(a, b, 0)) != 0 {
		t.Fatalf("expected no points for n=0")
	}
}

func TestCenter(t *testing.T) {
	t.Parallel()

	fallback := models.Point{Lat: 40.7431, Lng: -73.991321}
	if got := Center(nil, fallback); got != fallback {
		t.Fatalf("Center(nil) = %+v", got)
	}

	got := Center([]models.Point{{Lat: 10, Lng: 20}, {Lat: 20, Lng: 40}}, fallback)
	if math.Abs(got.Lat-15) > 1e-9 || math.Abs(got.Lng-30) > 1e-9 {
		t.Fatalf("Center = %+v, want 15,30", got)
	}
}

func TestContains(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		b    models.Bounds
		p    models.Point
		want bool
	}{
		{"unbounded", models.Bounds{}, models.Point{Lat: 1, Lng: 1}, true},
		{"inside", models.Bounds{MinLat: 40, MaxLat: 41, MinLng: -75, MaxLng: -73}, models.Point{Lat: 40.5, Lng: -74}, true},
		{"north of box", models.Bounds{MaxLat: 41}, models.Point{Lat: 42, Lng: -74}, false},
		{"west of box", models.Bounds{MinLng: -74}, models.Point{Lat: 40, Lng: -75}, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Contains(tc.b, tc.p); got != tc.want {
				t.Fatalf("Contains = %v, want %v", got, tc.want)
			}
		})
	}
}
