// Package viewstate holds the per-session map selection state and notifies
// observers whenever it changes.
package viewstate

import (
	"errors"
	"sync"

	"github.com/qpath-optimizer/backend/internal/models"
)

// ErrEndpointsUnset is returned when a route is requested before both points are chosen
var ErrEndpointsUnset = errors.New("start and end points must both be set")

// Observer receives a snapshot after every effective mutation.
// Observers are called in version order and must not mutate the container.
type Observer interface {
	StateChanged(State)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(State)

// StateChanged calls f(s)
func (f ObserverFunc) StateChanged(s State) { f(s) }

// Ticket identifies one in-flight route request
type Ticket struct {
	seq   uint64
	Start models.Point
	End   models.Point
}

// Container owns a State and serializes access to it
type Container struct {
	notifyMu sync.Mutex // held across a mutation and its notifications
	mu       sync.Mutex
	state    State

	requestSeq uint64
	observers  map[int]Observer
	nextID     int
}

// NewContainer returns a container in its initial state:
// no points, heatmap shown, selecting the start point.
func NewContainer() *Container {
	return &Container{
		state:     initialState(),
		observers: make(map[int]Observer),
	}
}

// Snapshot returns a copy of the current state
func (c *Container) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Mode returns the current edit mode
func (c *Container) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Mode()
}

// Subscribe registers o and returns a function that removes it
func (c *Container) Subscribe(o Observer) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.observers[id] = o
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// update applies fn under the lock. When fn reports a change the version is
// bumped and every observer receives the new snapshot.
func (c *Container) update(fn func(s *State) bool) bool {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if !fn(&c.state) {
		c.mu.Unlock()
		return false
	}
	c.state.Version++
	snap := c.state.clone()
	observers := make([]Observer, 0, len(c.observers))
	for _, o := range c.observers {
		observers = append(observers, o)
	}
	c.mu.Unlock()

	for _, o := range observers {
		o.StateChanged(snap)
	}
	return true
}

// SetStartPoint selects the start point. It is a no-op in cursor mode.
func (c *Container) SetStartPoint(p models.Point) bool {
	return c.update(func(s *State) bool {
		if s.CursorMode {
			return false
		}
		return setEndpoint(s, &s.StartPoint, p)
	})
}

// SetEndPoint selects the end point. It is a no-op in cursor mode.
func (c *Container) SetEndPoint(p models.Point) bool {
	return c.update(func(s *State) bool {
		if s.CursorMode {
			return false
		}
		return setEndpoint(s, &s.EndPoint, p)
	})
}

// Click applies a map click: start or end is set depending on EditingStart.
func (c *Container) Click(p models.Point) bool {
	return c.update(func(s *State) bool {
		if s.CursorMode {
			return false
		}
		if s.EditingStart {
			return setEndpoint(s, &s.StartPoint, p)
		}
		return setEndpoint(s, &s.EndPoint, p)
	})
}

// A moved endpoint invalidates the computed path.
func setEndpoint(s *State, field **models.Point, p models.Point) bool {
	if *field != nil && **field == p {
		return false
	}
	v := p
	*field = &v
	s.Path = []models.Point{}
	return true
}

// ClearPoints unsets both endpoints and drops the path, in any mode
func (c *Container) ClearPoints() bool {
	return c.update(func(s *State) bool {
		if s.StartPoint == nil && s.EndPoint == nil && len(s.Path) == 0 {
			return false
		}
		s.StartPoint = nil
		s.EndPoint = nil
		s.Path = []models.Point{}
		return true
	})
}

// SetMidpoints replaces the user waypoints
func (c *Container) SetMidpoints(points []models.Point) bool {
	return c.update(func(s *State) bool {
		if models.PointsEqual(s.Midpoints, points) {
			return false
		}
		s.Midpoints = models.ClonePoints(points)
		return true
	})
}

// AddMidpoint appends a user waypoint
func (c *Container) AddMidpoint(p models.Point) bool {
	return c.update(func(s *State) bool {
		s.Midpoints = append(models.ClonePoints(s.Midpoints), p)
		return true
	})
}

// SetPath replaces the computed path
func (c *Container) SetPath(path []models.Point) bool {
	return c.update(func(s *State) bool {
		if models.PointsEqual(s.Path, path) {
			return false
		}
		s.Path = models.ClonePoints(path)
		return true
	})
}

// SetEditingStart chooses which endpoint the next click sets
func (c *Container) SetEditingStart(v bool) bool {
	return c.update(func(s *State) bool {
		if s.EditingStart == v {
			return false
		}
		s.EditingStart = v
		return true
	})
}

// SetCursorMode enables or disables click-to-select suppression
func (c *Container) SetCursorMode(v bool) bool {
	return c.update(func(s *State) bool {
		if s.CursorMode == v {
			return false
		}
		s.CursorMode = v
		return true
	})
}

// SetHeatmapVisible shows or hides the heatmap layer
func (c *Container) SetHeatmapVisible(v bool) bool {
	return c.update(func(s *State) bool {
		if s.HeatmapVisible == v {
			return false
		}
		s.HeatmapVisible = v
		return true
	})
}

// ToggleHeatmap flips heatmap visibility
func (c *Container) ToggleHeatmap() bool {
	return c.update(func(s *State) bool {
		s.HeatmapVisible = !s.HeatmapVisible
		return true
	})
}

// BeginRequest marks a route request as in flight and returns its ticket.
// Any ticket issued earlier becomes stale.
func (c *Container) BeginRequest() (Ticket, error) {
	var (
		t   Ticket
		err error
	)
	c.update(func(s *State) bool {
		if s.StartPoint == nil || s.EndPoint == nil {
			err = ErrEndpointsUnset
			return false
		}
		c.requestSeq++
		t = Ticket{seq: c.requestSeq, Start: *s.StartPoint, End: *s.EndPoint}
		s.Loading = true
		s.LastError = ""
		return true
	})
	return t, err
}

// CompleteRequest applies the path for t. It is dropped when a newer request
// was issued, or when the endpoints moved while t was in flight.
func (c *Container) CompleteRequest(t Ticket, path []models.Point) bool {
	applied := false
	c.update(func(s *State) bool {
		if t.seq == 0 || t.seq != c.requestSeq {
			return false
		}
		s.Loading = false
		if !samePoint(s.StartPoint, &t.Start) || !samePoint(s.EndPoint, &t.End) {
			return true
		}
		s.Path = models.ClonePoints(path)
		s.LastError = ""
		applied = true
		return true
	})
	return applied
}

// FailRequest records the failure of t and stops the loading indicator.
// The previous path stays displayed.
func (c *Container) FailRequest(t Ticket, cause error) bool {
	return c.update(func(s *State) bool {
		if t.seq == 0 || t.seq != c.requestSeq {
			return false
		}
		s.Loading = false
		if cause != nil {
			s.LastError = cause.Error()
		}
		return true
	})
}
