package viewstate

import "github.com/qpath-optimizer/backend/internal/models"

// State is an immutable snapshot of a session's view state
type State struct {
	StartPoint     *models.Point
	EndPoint       *models.Point
	Midpoints      []models.Point
	Path           []models.Point
	EditingStart   bool
	CursorMode     bool
	HeatmapVisible bool
	Loading        bool
	LastError      string
	Version        uint64
}

func initialState() State {
	return State{
		Midpoints:      []models.Point{},
		Path:           []models.Point{},
		EditingStart:   true,
		HeatmapVisible: true,
	}
}

// Mode returns the edit mode this snapshot is in
func (s State) Mode() Mode {
	return modeOf(s.EditingStart, s.CursorMode)
}

// Response converts the snapshot to its JSON form
func (s State) Response() models.ViewStateResponse {
	return models.ViewStateResponse{
		StartPoint:     s.StartPoint,
		EndPoint:       s.EndPoint,
		Midpoints:      s.Midpoints,
		Path:           s.Path,
		EditingStart:   s.EditingStart,
		CursorMode:     s.CursorMode,
		HeatmapVisible: s.HeatmapVisible,
		Loading:        s.Loading,
		LastError:      s.LastError,
		Mode:           s.Mode().String(),
		Version:        s.Version,
	}
}

func (s State) clone() State {
	out := s
	out.StartPoint = clonePoint(s.StartPoint)
	out.EndPoint = clonePoint(s.EndPoint)
	out.Midpoints = models.ClonePoints(s.Midpoints)
	out.Path = models.ClonePoints(s.Path)
	return out
}

func clonePoint(p *models.Point) *models.Point {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func samePoint(a, b *models.Point) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
