package models

// MarkerKind identifies what a map marker stands for
type MarkerKind string

const (
	MarkerStart MarkerKind = "start"
	MarkerEnd   MarkerKind = "end"
	MarkerMid   MarkerKind = "mid"
)

// Marker is a single pin drawn on the map
type Marker struct {
	Kind     MarkerKind `json:"kind"`
	Index    int        `json:"index"`
	Position Point      `json:"position"`
	Color    string     `json:"color"`
	Size     int        `json:"size"`
}

// HeatmapLayer is the population overlay as the map sees it
type HeatmapLayer struct {
	Visible bool           `json:"visible"`
	Points  []HeatmapPoint `json:"points"`
}

// Scene is everything the browser needs to draw the map
type Scene struct {
	Version  uint64       `json:"version"`
	Center   Point        `json:"center"`
	Zoom     int          `json:"zoom"`
	Mode     string       `json:"mode"`
	Markers  []Marker     `json:"markers"`
	Polyline []Point      `json:"polyline"`
	Heatmap  HeatmapLayer `json:"heatmap"`
	Loading  bool         `json:"loading"`
	Error    string       `json:"error,omitempty"`
}
