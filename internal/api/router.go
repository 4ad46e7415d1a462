package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"

	"github.com/qpath-optimizer/backend/internal/handler"
	"github.com/qpath-optimizer/backend/internal/middleware"
	"github.com/qpath-optimizer/backend/internal/service"
)

// Services are the dependencies the routes are built on
type Services struct {
	Sessions *service.SessionService
	Routes   *service.RouteService
	Heatmap  *service.HeatmapService
	Limiter  *middleware.RateLimiter
	Logger   log.Logger
}

// SetupRouter 设置路由
func SetupRouter(svc Services) *gin.Engine {
	if svc.Logger == nil {
		svc.Logger = log.NewNopLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(svc.Logger))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"message":  "Qpath Optimizer API is running",
			"sessions": svc.Sessions.Count(),
		})
	})

	routeHandler := handler.NewRouteHandler(svc.Routes, svc.Logger)
	sessionHandler := handler.NewSessionHandler(svc.Sessions, svc.Routes)
	heatmapHandler := handler.NewHeatmapHandler(svc.Heatmap)

	limited := svc.Limiter.Middleware()

	// Path gateway, at the path browsers already call
	r.POST("/api/generate/path", limited, routeHandler.GeneratePath)

	api := r.Group("/api/v1")
	{
		api.POST("/generate/path", limited, routeHandler.GeneratePath)
		api.GET("/heatmap", heatmapHandler.GetHeatmap)

		api.POST("/sessions", sessionHandler.Create)

		session := api.Group("/sessions/:id", middleware.SessionAuth(svc.Sessions))
		{
			session.GET("", sessionHandler.Get)
			session.DELETE("", sessionHandler.Delete)
			session.GET("/scene", sessionHandler.Scene)
			session.GET("/ws", sessionHandler.WebSocket)
			session.POST("/controls/:action", sessionHandler.Control)
			session.POST("/click", sessionHandler.Click)
			session.PUT("/midpoints", sessionHandler.SetMidpoints)
			session.POST("/generate", limited, sessionHandler.Generate)
			session.GET("/routes", sessionHandler.History)
		}
	}

	return r
}
