package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/qpath-optimizer/backend/internal/models"
)

var (
	start = models.Point{Lat: 40.7731, Lng: -73.991321}
	mid   = models.Point{Lat: 40.7431, Lng: -73.981321}
	end   = models.Point{Lat: 40.7331, Lng: -73.971321}
)

func newRequest() models.RouteRequest {
	s, e := start, end
	return models.RouteRequest{StartPoint: &s, EndPoint: &e}
}

func TestGeneratePathForwardsRequest(t *testing.T) {
	t.Parallel()

	var got models.RouteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != GeneratePathRoute {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(models.UpstreamPathResponse{Path: []models.Point{start, mid, end}})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, 0, srv.Client(), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	path, err := c.GeneratePath(context.Background(), newRequest())
	if err != nil {
		t.Fatalf("GeneratePath: %v", err)
	}
	if want := []models.Point{start, mid, end}; !models.PointsEqual(path, want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	if got.StartPoint == nil || *got.StartPoint != start || got.EndPoint == nil || *got.EndPoint != end {
		t.Fatalf("upstream received %+v", got)
	}
}

func TestGeneratePathErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "missing path field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"route": []}`))
			},
			want: ErrMalformedResponse,
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`Server side error: boom`))
			},
			want: ErrMalformedResponse,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "Server side error: boom", http.StatusInternalServerError)
			},
			want: ErrUpstreamStatus,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c, err := NewClient(srv.URL, 0, srv.Client(), nil)
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			if _, err := c.GeneratePath(context.Background(), newRequest()); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestGeneratePathConnectionRefused(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c, err := NewClient("http://"+addr, time.Second, nil, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.GeneratePath(context.Background(), newRequest()); err == nil {
		t.Fatalf("expected an error for a closed port")
	}
}

func TestGeneratePathRejectsInvalidRequest(t *testing.T) {
	t.Parallel()

	c, err := NewClient("http://127.0.0.1:1", 0, nil, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	s := start
	if _, err := c.GeneratePath(context.Background(), models.RouteRequest{StartPoint: &s}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("127.0.0.1:80", 0, nil, nil); err == nil {
		t.Fatalf("expected an error for a url without scheme")
	}
}
