package repository

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/qpath-optimizer/backend/internal/database"
	"github.com/qpath-optimizer/backend/internal/models"
)

// CSV header names of the population dataset
const (
	ColumnLongitude  = "Longitude"
	ColumnLatitude   = "Latitude"
	ColumnPopulation = "TotalPop"
)

// ErrMissingColumn is returned when the dataset header lacks a required column
var ErrMissingColumn = errors.New("population csv is missing a required column")

// PopulationRepository handles database operations for the population dataset
type PopulationRepository struct {
	db *sql.DB
}

// NewPopulationRepository creates a new population repository
func NewPopulationRepository(db *sql.DB) *PopulationRepository {
	return &PopulationRepository{db: db}
}

// Count returns the number of stored points
func (r *PopulationRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM population_points").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count population points: %w", err)
	}
	return n, nil
}

// List returns the points inside bounds. Zero-valued edges are unbounded.
func (r *PopulationRepository) List(bounds models.Bounds) ([]models.PopulationPoint, error) {
	query := `SELECT id, longitude, latitude, population FROM population_points`

	var conditions []string
	var args []interface{}
	if bounds.MinLat != 0 {
		conditions = append(conditions, "latitude >= ?")
		args = append(args, bounds.MinLat)
	}
	if bounds.MaxLat != 0 {
		conditions = append(conditions, "latitude <= ?")
		args = append(args, bounds.MaxLat)
	}
	if bounds.MinLng != 0 {
		conditions = append(conditions, "longitude >= ?")
		args = append(args, bounds.MinLng)
	}
	if bounds.MaxLng != 0 {
		conditions = append(conditions, "longitude <= ?")
		args = append(args, bounds.MaxLng)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query population points: %w", err)
	}
	defer rows.Close()

	points := []models.PopulationPoint{}
	for rows.Next() {
		var p models.PopulationPoint
		if err := rows.Scan(&p.ID, &p.Longitude, &p.Latitude, &p.Population); err != nil {
			return nil, fmt.Errorf("failed to scan population point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate population points: %w", err)
	}

	return points, nil
}

// ImportCSV loads a Longitude,Latitude,TotalPop table in one transaction.
// Rows whose numbers do not parse are skipped and counted.
func (r *PopulationRepository) ImportCSV(src io.Reader) (imported, skipped int, err error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read population csv header: %w", err)
	}
	lngCol, latCol, popCol := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case ColumnLongitude:
			lngCol = i
		case ColumnLatitude:
			latCol = i
		case ColumnPopulation:
			popCol = i
		}
	}
	if lngCol < 0 || latCol < 0 || popCol < 0 {
		return 0, 0, fmt.Errorf("%w: need %s, %s and %s", ErrMissingColumn, ColumnLongitude, ColumnLatitude, ColumnPopulation)
	}
	maxCol := maxInt(lngCol, maxInt(latCol, popCol))

	err = database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare("INSERT INTO population_points (longitude, latitude, population) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for {
			record, err := reader.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read population csv: %w", err)
			}
			if len(record) <= maxCol {
				skipped++
				continue
			}

			lng, errLng := strconv.ParseFloat(strings.TrimSpace(record[lngCol]), 64)
			lat, errLat := strconv.ParseFloat(strings.TrimSpace(record[latCol]), 64)
			pop, errPop := strconv.ParseFloat(strings.TrimSpace(record[popCol]), 64)
			if errLng != nil || errLat != nil || errPop != nil || pop < 0 {
				skipped++
				continue
			}
			p := models.Point{Lat: lat, Lng: lng}
			if !p.IsFinite() {
				skipped++
				continue
			}

			if _, err := stmt.Exec(lng, lat, int(pop)); err != nil {
				return fmt.Errorf("failed to insert population point: %w", err)
			}
			imported++
		}
	})
	if err != nil {
		return 0, 0, err
	}

	return imported, skipped, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
