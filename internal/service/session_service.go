package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/qpath-optimizer/backend/internal/canvas"
	"github.com/qpath-optimizer/backend/internal/models"
	"github.com/qpath-optimizer/backend/internal/realtime"
	"github.com/qpath-optimizer/backend/internal/viewstate"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownAction is returned for a control action that does not exist
	ErrUnknownAction = errors.New("unknown control action")
	// ErrInvalidPoint is returned for a coordinate that is not a finite number
	ErrInvalidPoint = errors.New("coordinates must be finite numbers")
)

// Action is a control-surface button
type Action string

const (
	ActionSelectStart   Action = "select-start"
	ActionSelectEnd     Action = "select-end"
	ActionClear         Action = "clear"
	ActionCursor        Action = "cursor"
	ActionToggleHeatmap Action = "heatmap"
)

// Session is a live map session: its state, the adapter drawing it and the
// hub pushing the drawing to browsers.
type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time

	State   *viewstate.Container
	Canvas  *canvas.Adapter
	Clients *realtime.Hub
}

// SessionService owns every live session
type SessionService struct {
	canvasCfg canvas.Config
	heatmap   []models.HeatmapPoint
	tokens    *TokenIssuer
	logger    log.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionService creates a registry. heatmap is handed to every new
// session's canvas, which keeps its own copy.
func NewSessionService(canvasCfg canvas.Config, heatmap []models.HeatmapPoint, tokens *TokenIssuer, logger log.Logger) *SessionService {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &SessionService{
		canvasCfg: canvasCfg,
		heatmap:   heatmap,
		tokens:    tokens,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Create starts a session and returns it with a signed token
func (s *SessionService) Create() (models.Session, error) {
	id := uuid.NewString()
	token, expires, err := s.tokens.Issue(id)
	if err != nil {
		return models.Session{}, err
	}

	hub := realtime.NewHub(log.With(s.logger, "session", id))
	container := viewstate.NewContainer()
	adapter := canvas.New(s.canvasCfg, s.heatmap, hub)
	adapter.Attach(container)

	sess := &Session{
		ID:        id,
		CreatedAt: s.now(),
		ExpiresAt: expires,
		State:     container,
		Canvas:    adapter,
		Clients:   hub,
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	level.Info(s.logger).Log("msg", "session created", "session", id)
	return models.Session{ID: id, Token: token, CreatedAt: sess.CreatedAt, ExpiresAt: expires}, nil
}

// Get returns a live session
func (s *SessionService) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || s.now().After(sess.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Authorize verifies token belongs to session id
func (s *SessionService) Authorize(id, token string) error {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}
	if subject != id {
		return fmt.Errorf("%w: token issued for another session", ErrInvalidToken)
	}
	return nil
}

// Delete discards a session and disconnects its browsers
func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.close(sess)
	level.Info(s.logger).Log("msg", "session deleted", "session", id)
	return nil
}

func (s *SessionService) close(sess *Session) {
	sess.Canvas.Detach()
	sess.Clients.Close()
}

// Count returns the number of registered sessions
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes every session expired at now and returns how many went
func (s *SessionService) Sweep(now time.Time) int {
	var expired []*Session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		s.close(sess)
	}
	if len(expired) > 0 {
		level.Info(s.logger).Log("msg", "expired sessions removed", "count", len(expired))
	}
	return len(expired)
}

// RunJanitor sweeps expired sessions every interval until ctx is done
func (s *SessionService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

// Control applies a control-surface action
func (s *SessionService) Control(id string, action Action) (viewstate.State, error) {
	sess, err := s.Get(id)
	if err != nil {
		return viewstate.State{}, err
	}

	c := sess.State
	switch action {
	case ActionSelectStart:
		c.SetEditingStart(true)
		c.SetCursorMode(false)
	case ActionSelectEnd:
		c.SetEditingStart(false)
		c.SetCursorMode(false)
	case ActionClear:
		c.ClearPoints()
	case ActionCursor:
		c.SetCursorMode(true)
	case ActionToggleHeatmap:
		c.ToggleHeatmap()
	default:
		return viewstate.State{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return c.Snapshot(), nil
}

// Click applies a map click to the session
func (s *SessionService) Click(id string, p models.Point) (viewstate.State, error) {
	if !p.IsFinite() {
		return viewstate.State{}, ErrInvalidPoint
	}
	sess, err := s.Get(id)
	if err != nil {
		return viewstate.State{}, err
	}
	sess.Canvas.HandleClick(p.Lat, p.Lng)
	return sess.State.Snapshot(), nil
}

// SetMidpoints replaces the session's waypoints
func (s *SessionService) SetMidpoints(id string, points []models.Point) (viewstate.State, error) {
	for _, p := range points {
		if !p.IsFinite() {
			return viewstate.State{}, ErrInvalidPoint
		}
	}
	sess, err := s.Get(id)
	if err != nil {
		return viewstate.State{}, err
	}
	sess.State.SetMidpoints(points)
	return sess.State.Snapshot(), nil
}
