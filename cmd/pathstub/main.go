// Command pathstub is a stand-in for the path-generation service. It answers
// POST /path/generate with a great-circle path from start to end.
package main

import (
	"encoding/json"
	"flag"
	"mime"
	"net/http"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/qpath-optimizer/backend/internal/gateway"
	"github.com/qpath-optimizer/backend/internal/logging"
	"github.com/qpath-optimizer/backend/internal/models"
	"github.com/qpath-optimizer/backend/internal/spatial"
)

func main() {
	addr := flag.String("addr", ":80", "listen address")
	hops := flag.Int("hops", 2, "interior points per path")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger := logging.New(*logLevel)

	mux := http.NewServeMux()
	mux.Handle(gateway.GeneratePathRoute, generateHandler(*hops, logger))

	level.Info(logger).Log("msg", "path stub listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		level.Error(logger).Log("msg", "path stub stopped", "err", err)
		os.Exit(1)
	}
}

func generateHandler(hops int, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType != "application/json" {
			http.Error(w, "Content-Type not supported!", http.StatusBadRequest)
			return
		}

		var req models.RouteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Server side error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if err := gateway.Validate(req); err != nil {
			http.Error(w, "Server side error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		path := make([]models.Point, 0, hops+2)
		path = append(path, *req.StartPoint)
		path = append(path, spatial.Interpolate(*req.StartPoint, *req.EndPoint, hops)...)
		path = append(path, *req.EndPoint)

		level.Debug(logger).Log("msg", "path generated", "points", len(path))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.UpstreamPathResponse{Path: path})
	})
}
