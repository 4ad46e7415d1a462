package viewstate

import (
	"errors"
	"testing"

	"github.com/qpath-optimizer/backend/internal/models"
)

var (
	start = models.Point{Lat: 40.7731, Lng: -73.991321}
	mid   = models.Point{Lat: 40.7431, Lng: -73.981321}
	end   = models.Point{Lat: 40.7331, Lng: -73.971321}
)

func TestInitialState(t *testing.T) {
	t.Parallel()

	s := NewContainer().Snapshot()
	if s.StartPoint != nil || s.EndPoint != nil {
		t.Fatalf("expected unset endpoints, got %v %v", s.StartPoint, s.EndPoint)
	}
	if len(s.Midpoints) != 0 || len(s.Path) != 0 {
		t.Fatalf("expected empty sequences")
	}
	if s.Mode() != SelectingStart {
		t.Fatalf("mode = %s, want %s", s.Mode(), SelectingStart)
	}
	if !s.HeatmapVisible {
		t.Fatalf("heatmap should start visible")
	}
}

func TestSetStartPointIgnoredInCursorMode(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	c.SetStartPoint(start)
	c.SetCursorMode(true)

	if c.SetStartPoint(end) {
		t.Fatalf("SetStartPoint reported a change in cursor mode")
	}
	if got := c.Snapshot().StartPoint; got == nil || *got != start {
		t.Fatalf("start point = %v, want %v", got, start)
	}
	if c.SetEndPoint(end) {
		t.Fatalf("SetEndPoint reported a change in cursor mode")
	}
	if c.Snapshot().EndPoint != nil {
		t.Fatalf("end point should stay unset")
	}
}

func TestClickFollowsEditingStart(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	c.Click(start)
	c.SetEditingStart(false)
	c.Click(end)

	s := c.Snapshot()
	if s.StartPoint == nil || *s.StartPoint != start {
		t.Fatalf("start point = %v, want %v", s.StartPoint, start)
	}
	if s.EndPoint == nil || *s.EndPoint != end {
		t.Fatalf("end point = %v, want %v", s.EndPoint, end)
	}
	if s.Mode() != SelectingEnd {
		t.Fatalf("mode = %s, want %s", s.Mode(), SelectingEnd)
	}
}

func TestClickIgnoredInCursorMode(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	c.SetCursorMode(true)
	if c.Click(start) {
		t.Fatalf("click should be ignored in cursor mode")
	}
	if c.Mode() != CursorMode {
		t.Fatalf("mode = %s, want %s", c.Mode(), CursorMode)
	}
}

func TestClearPoints(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	c.SetStartPoint(start)
	c.SetEndPoint(end)
	c.SetPath([]models.Point{start, mid, end})
	c.SetCursorMode(true)

	if !c.ClearPoints() {
		t.Fatalf("ClearPoints reported no change")
	}
	s := c.Snapshot()
	if s.StartPoint != nil || s.EndPoint != nil || len(s.Path) != 0 {
		t.Fatalf("expected cleared state, got %+v", s)
	}
	if c.ClearPoints() {
		t.Fatalf("second ClearPoints should be a no-op")
	}
}

func TestMovingEndpointDropsPath(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	c.SetStartPoint(start)
	c.SetEndPoint(end)
	c.SetPath([]models.Point{start, mid, end})
	c.SetEndPoint(mid)

	if got := c.Snapshot().Path; len(got) != 0 {
		t.Fatalf("path = %v, want empty", got)
	}
}

func TestObserversSeeEveryChangeInOrder(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	var versions []uint64
	unsubscribe := c.Subscribe(ObserverFunc(func(s State) {
		versions = append(versions, s.Version)
	}))

	c.SetStartPoint(start)
	c.SetStartPoint(start) // no-op
	c.ToggleHeatmap()
	unsubscribe()
	c.ToggleHeatmap()

	if len(versions) != 2 || versions[0] != 1 || versions[1] != 2 {
		t.Fatalf("versions = %v, want [1 2]", versions)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	c.SetMidpoints([]models.Point{mid})
	s := c.Snapshot()
	s.Midpoints[0] = start

	if got := c.Snapshot().Midpoints[0]; got != mid {
		t.Fatalf("midpoint mutated through snapshot: %v", got)
	}
}

func TestRequestLifecycle(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	if _, err := c.BeginRequest(); !errors.Is(err, ErrEndpointsUnset) {
		t.Fatalf("err = %v, want ErrEndpointsUnset", err)
	}

	c.SetStartPoint(start)
	c.SetEndPoint(end)

	ticket, err := c.BeginRequest()
	if err != nil {
		t.Fatalf("BeginRequest: %v", err)
	}
	if !c.Snapshot().Loading {
		t.Fatalf("expected loading")
	}

	path := []models.Point{start, mid, end}
	if !c.CompleteRequest(ticket, path) {
		t.Fatalf("CompleteRequest not applied")
	}
	s := c.Snapshot()
	if s.Loading || !models.PointsEqual(s.Path, path) {
		t.Fatalf("unexpected state after completion: %+v", s)
	}
}

func TestStaleCompletionIsDropped(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	c.SetStartPoint(start)
	c.SetEndPoint(end)

	first, _ := c.BeginRequest()
	second, _ := c.BeginRequest()

	if c.CompleteRequest(first, []models.Point{start, end}) {
		t.Fatalf("stale ticket applied")
	}
	if !c.Snapshot().Loading {
		t.Fatalf("newer request is still pending")
	}
	path := []models.Point{start, mid, end}
	if !c.CompleteRequest(second, path) {
		t.Fatalf("latest ticket not applied")
	}
}

func TestCompletionAfterEndpointMoved(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	c.SetStartPoint(start)
	c.SetEndPoint(end)
	ticket, _ := c.BeginRequest()
	c.SetEndPoint(mid)

	if c.CompleteRequest(ticket, []models.Point{start, end}) {
		t.Fatalf("path applied for moved endpoints")
	}
	s := c.Snapshot()
	if s.Loading || len(s.Path) != 0 {
		t.Fatalf("unexpected state: %+v", s)
	}
}

func TestFailRequestKeepsPreviousPath(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	c.SetStartPoint(start)
	c.SetEndPoint(end)
	path := []models.Point{start, mid, end}
	c.SetPath(path)

	ticket, _ := c.BeginRequest()
	c.FailRequest(ticket, errors.New("connection refused"))

	s := c.Snapshot()
	if s.Loading {
		t.Fatalf("loading should stop on failure")
	}
	if s.LastError != "connection refused" {
		t.Fatalf("last error = %q", s.LastError)
	}
	if !models.PointsEqual(s.Path, path) {
		t.Fatalf("previous path lost: %v", s.Path)
	}
}
