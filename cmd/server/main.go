package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/qpath-optimizer/backend/internal/api"
	"github.com/qpath-optimizer/backend/internal/canvas"
	"github.com/qpath-optimizer/backend/internal/config"
	"github.com/qpath-optimizer/backend/internal/database"
	"github.com/qpath-optimizer/backend/internal/gateway"
	"github.com/qpath-optimizer/backend/internal/logging"
	"github.com/qpath-optimizer/backend/internal/middleware"
	"github.com/qpath-optimizer/backend/internal/models"
	"github.com/qpath-optimizer/backend/internal/repository"
	"github.com/qpath-optimizer/backend/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		level.Error(logger).Log("msg", "server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger log.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化数据库
	db, err := database.Open(database.Config{Path: cfg.DBPath}, log.With(logger, "component", "database"))
	if err != nil {
		return err
	}
	defer db.Close()

	heatmapService := service.NewHeatmapService(repository.NewPopulationRepository(db), log.With(logger, "component", "heatmap"))
	if err := heatmapService.Seed(cfg.PopulationCSV); err != nil {
		return err
	}
	heatmap, err := heatmapService.Heatmap(models.Bounds{})
	if err != nil {
		return err
	}

	paths, err := gateway.NewClient(cfg.UpstreamURL, cfg.UpstreamTimeout, nil, logger)
	if err != nil {
		return err
	}

	sessions := service.NewSessionService(
		canvas.Config{
			Center: models.Point{Lat: cfg.MapCenterLat, Lng: cfg.MapCenterLng},
			Zoom:   cfg.MapZoom,
		},
		heatmap.Points,
		service.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL),
		log.With(logger, "component", "sessions"),
	)
	routes := service.NewRouteService(paths, sessions, repository.NewRouteRepository(db), log.With(logger, "component", "routes"))

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	go limiter.Run(ctx)
	go sessions.RunJanitor(ctx, time.Minute)

	gin.SetMode(gin.ReleaseMode)
	router := api.SetupRouter(api.Services{
		Sessions: sessions,
		Routes:   routes,
		Heatmap:  heatmapService,
		Limiter:  limiter,
		Logger:   log.With(logger, "component", "http"),
	})

	server := &http.Server{
		Addr:        cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "server starting", "addr", cfg.Port, "upstream", cfg.UpstreamURL, "heatmap_points", heatmap.Count)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	level.Info(logger).Log("msg", "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
