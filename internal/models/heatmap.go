package models

// MetricPopulation is the only heatmap metric served
const MetricPopulation = "population"

// HeatmapPoint represents a single weighted point in the heatmap
type HeatmapPoint struct {
	Lat       float64 `json:"lat"`       // Latitude
	Lng       float64 `json:"lng"`       // Longitude
	Intensity float64 `json:"intensity"` // Normalized 0-1
	Value     int     `json:"value"`     // Raw population
	Metric    string  `json:"metric"`
}

// HeatmapResponse represents the heatmap API response
type HeatmapResponse struct {
	Points   []HeatmapPoint `json:"points"`
	Count    int            `json:"count"`
	MaxValue int            `json:"max_value"`
	MinValue int            `json:"min_value"`
	Metric   string         `json:"metric"`
}

// PopulationPoint is a row of the static population dataset
type PopulationPoint struct {
	ID         int64   `json:"id" db:"id"`
	Longitude  float64 `json:"longitude" db:"longitude"`
	Latitude   float64 `json:"latitude" db:"latitude"`
	Population int     `json:"population" db:"population"`
}

// Bounds filters population points by bounding box. Zero values mean unbounded.
type Bounds struct {
	MinLat float64 `form:"minLat"`
	MaxLat float64 `form:"maxLat"`
	MinLng float64 `form:"minLng"`
	MaxLng float64 `form:"maxLng"`
}
