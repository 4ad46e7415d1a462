package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/qpath-optimizer/backend/internal/gateway"
	"github.com/qpath-optimizer/backend/internal/models"
	"github.com/qpath-optimizer/backend/internal/repository"
	"github.com/qpath-optimizer/backend/internal/spatial"
)

// RouteService sends route requests to the path service and records them
type RouteService struct {
	paths    gateway.PathGenerator
	sessions *SessionService
	history  *repository.RouteRepository
	logger   log.Logger
}

// NewRouteService creates a route service. history may be nil.
func NewRouteService(paths gateway.PathGenerator, sessions *SessionService, history *repository.RouteRepository, logger log.Logger) *RouteService {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &RouteService{paths: paths, sessions: sessions, history: history, logger: logger}
}

// Forward passes req to the path service unchanged
func (s *RouteService) Forward(ctx context.Context, req models.RouteRequest) ([]models.Point, error) {
	started := time.Now()
	path, err := s.paths.GeneratePath(ctx, req)
	if req.StartPoint != nil && req.EndPoint != nil {
		s.record("", *req.StartPoint, *req.EndPoint, path, err, time.Since(started))
	}
	return path, err
}

// Generate requests a route between the session's start and end points.
// The loading flag is raised while the request runs; on failure the error
// is surfaced in the view state and the previous path stays.
func (s *RouteService) Generate(ctx context.Context, sessionID string) (models.RouteSummary, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return models.RouteSummary{}, err
	}

	ticket, err := sess.State.BeginRequest()
	if err != nil {
		return models.RouteSummary{}, err
	}

	start, end := ticket.Start, ticket.End
	started := time.Now()
	path, err := s.paths.GeneratePath(ctx, models.RouteRequest{StartPoint: &start, EndPoint: &end})
	s.record(sessionID, start, end, path, err, time.Since(started))

	if err != nil {
		sess.State.FailRequest(ticket, fmt.Errorf("route could not be generated: %v", err))
		return models.RouteSummary{}, err
	}

	applied := sess.State.CompleteRequest(ticket, path)
	return models.RouteSummary{
		Path:           path,
		PointCount:     len(path),
		DistanceMeters: spatial.PathLength(path),
		Applied:        applied,
	}, nil
}

// History lists the session's recent route requests
func (s *RouteService) History(sessionID string, limit int) ([]models.RouteRecord, error) {
	if _, err := s.sessions.Get(sessionID); err != nil {
		return nil, err
	}
	if s.history == nil {
		return []models.RouteRecord{}, nil
	}
	return s.history.ListBySession(sessionID, limit)
}

func (s *RouteService) record(sessionID string, start, end models.Point, path []models.Point, cause error, took time.Duration) {
	if s.history == nil {
		return
	}
	rec := models.RouteRecord{
		SessionID:      sessionID,
		Start:          start,
		End:            end,
		PointCount:     len(path),
		DistanceMeters: spatial.PathLength(path),
		DurationMs:     took.Milliseconds(),
	}
	if cause != nil {
		rec.Error = cause.Error()
	}
	if _, err := s.history.Create(rec); err != nil {
		level.Warn(s.logger).Log("msg", "failed to record route request", "err", err)
	}
}
