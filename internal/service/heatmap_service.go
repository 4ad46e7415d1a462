package service

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/qpath-optimizer/backend/internal/models"
	"github.com/qpath-optimizer/backend/internal/repository"
)

// HeatmapService turns the population dataset into heatmap weight points
type HeatmapService struct {
	repo   *repository.PopulationRepository
	logger log.Logger
}

// NewHeatmapService creates a new heatmap service
func NewHeatmapService(repo *repository.PopulationRepository, logger log.Logger) *HeatmapService {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &HeatmapService{repo: repo, logger: logger}
}

// Seed imports the csv at path when the dataset is still empty.
// A missing file leaves the heatmap empty.
func (s *HeatmapService) Seed(path string) error {
	n, err := s.repo.Count()
	if err != nil {
		return err
	}
	if n > 0 {
		level.Debug(s.logger).Log("msg", "population dataset already loaded", "points", n)
		return nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		level.Warn(s.logger).Log("msg", "population dataset not found, heatmap will be empty", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open population dataset: %w", err)
	}
	defer f.Close()

	imported, skipped, err := s.repo.ImportCSV(f)
	if err != nil {
		return err
	}
	level.Info(s.logger).Log("msg", "population dataset imported", "path", path, "points", imported, "skipped", skipped)
	return nil
}

// Heatmap returns the weighted points inside bounds
func (s *HeatmapService) Heatmap(bounds models.Bounds) (models.HeatmapResponse, error) {
	rows, err := s.repo.List(bounds)
	if err != nil {
		return models.HeatmapResponse{}, err
	}
	return BuildHeatmap(rows), nil
}

// BuildHeatmap normalises population into [0,1] intensity against the largest value
func BuildHeatmap(rows []models.PopulationPoint) models.HeatmapResponse {
	resp := models.HeatmapResponse{
		Points: make([]models.HeatmapPoint, 0, len(rows)),
		Count:  len(rows),
		Metric: models.MetricPopulation,
	}
	if len(rows) == 0 {
		return resp
	}

	resp.MinValue, resp.MaxValue = rows[0].Population, rows[0].Population
	for _, r := range rows[1:] {
		if r.Population < resp.MinValue {
			resp.MinValue = r.Population
		}
		if r.Population > resp.MaxValue {
			resp.MaxValue = r.Population
		}
	}

	for _, r := range rows {
		intensity := 0.0
		if resp.MaxValue > 0 {
			intensity = float64(r.Population) / float64(resp.MaxValue)
		}
		resp.Points = append(resp.Points, models.HeatmapPoint{
			Lat:       r.Latitude,
			Lng:       r.Longitude,
			Intensity: intensity,
			Value:     r.Population,
			Metric:    models.MetricPopulation,
		})
	}
	return resp
}
