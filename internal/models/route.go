package models

// RouteRequest is the body accepted by the path gateway and forwarded upstream
type RouteRequest struct {
	StartPoint *Point `json:"start_point"`
	EndPoint   *Point `json:"end_point"`
}

// UpstreamPathResponse is the body returned by the path-generation service
type UpstreamPathResponse struct {
	Path []Point `json:"path"`
}

// GatewaySuccess wraps a computed path. Body holds the JSON-encoded point array.
type GatewaySuccess struct {
	Body   string `json:"body"`
	Status int    `json:"status"`
}

// GatewayError is returned by the path gateway on any failure
type GatewayError struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// RouteSummary describes a path applied to a session
type RouteSummary struct {
	Path           []Point `json:"path"`
	PointCount     int     `json:"point_count"`
	DistanceMeters float64 `json:"distance_meters"`
	Applied        bool    `json:"applied"` // false when a newer request superseded this one
}

// RouteRecord is one logged route request
type RouteRecord struct {
	ID             int64   `json:"id" db:"id"`
	SessionID      string  `json:"session_id" db:"session_id"`
	Start          Point   `json:"start_point"`
	End            Point   `json:"end_point"`
	PointCount     int     `json:"point_count" db:"point_count"`
	DistanceMeters float64 `json:"distance_meters" db:"distance_m"`
	Error          string  `json:"error,omitempty" db:"error"`
	DurationMs     int64   `json:"duration_ms" db:"duration_ms"`
	CreatedAt      string  `json:"created_at" db:"created_at"`
}
