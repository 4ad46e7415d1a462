package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-kit/log"

	"github.com/qpath-optimizer/backend/internal/gateway"
	"github.com/qpath-optimizer/backend/internal/models"
)

func TestStubServesGatewayClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle(gateway.GeneratePathRoute, generateHandler(2, log.NewNopLogger()))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := gateway.NewClient(srv.URL, 0, srv.Client(), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	start := models.Point{Lat: 40.7731, Lng: -73.991321}
	end := models.Point{Lat: 40.7331, Lng: -73.971321}
	path, err := client.GeneratePath(context.Background(), models.RouteRequest{StartPoint: &start, EndPoint: &end})
	if err != nil {
		t.Fatalf("GeneratePath: %v", err)
	}
	if len(path) != 4 || path[0] != start || path[3] != end {
		t.Fatalf("path = %v", path)
	}
}

func TestStubRejectsNonJSON(t *testing.T) {
	h := generateHandler(2, log.NewNopLogger())
	req := httptest.NewRequest(http.MethodPost, gateway.GeneratePathRoute, strings.NewReader("start=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
