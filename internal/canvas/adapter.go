// Package canvas turns view state snapshots into the map scene the browser draws.
package canvas

import (
	"sync"

	"github.com/qpath-optimizer/backend/internal/models"
	"github.com/qpath-optimizer/backend/internal/spatial"
	"github.com/qpath-optimizer/backend/internal/viewstate"
)

// Marker styling, matching the map's start/mid/end badges
const (
	StartColor = "green.500"
	MidColor   = "#696969"
	EndColor   = "#7C5CDA"

	endpointSize = 24
	midpointSize = 16
)

// Config is the initial map camera
type Config struct {
	Center models.Point
	Zoom   int
}

// Sink receives every rendered scene. A nil sink means nothing is drawn.
type Sink interface {
	Publish(models.Scene)
}

// Adapter binds a view state container to map overlays
type Adapter struct {
	cfg     Config
	heatmap []models.HeatmapPoint
	sink    Sink

	mu          sync.Mutex
	scene       models.Scene
	rendered    bool
	container   *viewstate.Container
	unsubscribe func()
}

// New creates an adapter. The heatmap points are copied once and never
// modified afterwards.
func New(cfg Config, heatmap []models.HeatmapPoint, sink Sink) *Adapter {
	layer := make([]models.HeatmapPoint, len(heatmap))
	copy(layer, heatmap)
	return &Adapter{cfg: cfg, heatmap: layer, sink: sink}
}

// Attach subscribes to c and draws its current state
func (a *Adapter) Attach(c *viewstate.Container) {
	a.mu.Lock()
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.container = c
	a.rendered = false
	a.mu.Unlock()

	unsubscribe := c.Subscribe(a)

	a.mu.Lock()
	a.unsubscribe = unsubscribe
	a.mu.Unlock()

	a.StateChanged(c.Snapshot())
}

// Detach stops following the container
func (a *Adapter) Detach() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.container = nil
}

// HandleClick forwards a map click to the attached container.
// It reports whether the selection changed.
func (a *Adapter) HandleClick(lat, lng float64) bool {
	a.mu.Lock()
	c := a.container
	a.mu.Unlock()
	if c == nil {
		return false
	}
	return c.Click(models.Point{Lat: lat, Lng: lng})
}

// StateChanged implements viewstate.Observer. Snapshots older than the last
// drawn one are ignored.
func (a *Adapter) StateChanged(s viewstate.State) {
	scene := a.Render(s)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rendered && s.Version < a.scene.Version {
		return
	}
	a.scene = scene
	a.rendered = true
	if a.sink != nil {
		a.sink.Publish(scene)
	}
}

// Scene returns the last drawn scene
func (a *Adapter) Scene() models.Scene {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scene
}

// Render computes the scene for s without side effects
func (a *Adapter) Render(s viewstate.State) models.Scene {
	markers := make([]models.Marker, 0, len(s.Midpoints)+2)
	if s.StartPoint != nil {
		markers = append(markers, models.Marker{
			Kind: models.MarkerStart, Position: *s.StartPoint, Color: StartColor, Size: endpointSize,
		})
	}
	for i, p := range s.Midpoints {
		markers = append(markers, models.Marker{
			Kind: models.MarkerMid, Index: i, Position: p, Color: MidColor, Size: midpointSize,
		})
	}
	if s.EndPoint != nil {
		markers = append(markers, models.Marker{
			Kind: models.MarkerEnd, Position: *s.EndPoint, Color: EndColor, Size: endpointSize,
		})
	}

	polyline := polylineFor(s)

	layer := models.HeatmapLayer{Visible: s.HeatmapVisible, Points: []models.HeatmapPoint{}}
	if s.HeatmapVisible {
		layer.Points = a.heatmap
	}

	return models.Scene{
		Version:  s.Version,
		Center:   spatial.Center(polyline, a.cfg.Center),
		Zoom:     a.cfg.Zoom,
		Mode:     s.Mode().String(),
		Markers:  markers,
		Polyline: polyline,
		Heatmap:  layer,
		Loading:  s.Loading,
		Error:    s.LastError,
	}
}

// A received path wins; otherwise the line runs through the user's points.
// Either endpoint missing empties the line.
func polylineFor(s viewstate.State) []models.Point {
	if s.StartPoint == nil || s.EndPoint == nil {
		return []models.Point{}
	}
	if len(s.Path) > 0 {
		return models.ClonePoints(s.Path)
	}
	line := make([]models.Point, 0, len(s.Midpoints)+2)
	line = append(line, *s.StartPoint)
	line = append(line, s.Midpoints...)
	line = append(line, *s.EndPoint)
	return line
}
