package models

import "time"

// Session is one browser map session
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ViewStateResponse is the JSON form of a view state snapshot
type ViewStateResponse struct {
	StartPoint     *Point  `json:"start_point"`
	EndPoint       *Point  `json:"end_point"`
	Midpoints      []Point `json:"midpoints"`
	Path           []Point `json:"path"`
	EditingStart   bool    `json:"editing_start"`
	CursorMode     bool    `json:"cursor_mode"`
	HeatmapVisible bool    `json:"heatmap_visible"`
	Loading        bool    `json:"loading"`
	LastError      string  `json:"last_error,omitempty"`
	Mode           string  `json:"mode"`
	Version        uint64  `json:"version"`
}
