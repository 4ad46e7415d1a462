package repository

import (
	"database/sql"
	"fmt"

	"github.com/qpath-optimizer/backend/internal/models"
)

// RouteRepository records route requests
type RouteRepository struct {
	db *sql.DB
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create stores rec and returns its id
func (r *RouteRepository) Create(rec models.RouteRecord) (int64, error) {
	res, err := r.db.Exec(`INSERT INTO route_requests
		(session_id, start_lat, start_lng, end_lat, end_lng, point_count, distance_m, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Start.Lat, rec.Start.Lng, rec.End.Lat, rec.End.Lng,
		rec.PointCount, rec.DistanceMeters, rec.Error, rec.DurationMs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert route request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read route request id: %w", err)
	}
	return id, nil
}

// ListBySession returns the newest limit requests made by a session
func (r *RouteRepository) ListBySession(sessionID string, limit int) ([]models.RouteRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`SELECT id, session_id, start_lat, start_lng, end_lat, end_lng,
		point_count, distance_m, error, duration_ms, COALESCE(created_at, '')
		FROM route_requests WHERE session_id = ? ORDER BY id DESC LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query route requests: %w", err)
	}
	defer rows.Close()

	records := []models.RouteRecord{}
	for rows.Next() {
		var rec models.RouteRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Start.Lat, &rec.Start.Lng, &rec.End.Lat, &rec.End.Lng,
			&rec.PointCount, &rec.DistanceMeters, &rec.Error, &rec.DurationMs, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan route request: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate route requests: %w", err)
	}

	return records, nil
}
