package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/qpath-optimizer/backend/internal/gateway"
	"github.com/qpath-optimizer/backend/internal/models"
	"github.com/qpath-optimizer/backend/internal/service"
)

// RouteHandler is the pass-through path gateway
type RouteHandler struct {
	routes *service.RouteService
	logger log.Logger
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routes *service.RouteService, logger log.Logger) *RouteHandler {
	return &RouteHandler{routes: routes, logger: logger}
}

// GeneratePath handles POST /api/generate/path
func (h *RouteHandler) GeneratePath(c *gin.Context) {
	var req models.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		gatewayError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := gateway.Validate(req); err != nil {
		gatewayError(c, http.StatusBadRequest, err)
		return
	}

	path, err := h.routes.Forward(c.Request.Context(), req)
	if err != nil {
		level.Error(h.logger).Log("msg", "path generation failed", "err", err)
		gatewayError(c, http.StatusInternalServerError, err)
		return
	}

	body, err := json.Marshal(path)
	if err != nil {
		gatewayError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, models.GatewaySuccess{Body: string(body), Status: http.StatusOK})
}

func gatewayError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	msg := "Error occurred during path generation: " + err.Error()
	if errors.Is(err, gateway.ErrInvalidRequest) || status == http.StatusBadRequest {
		msg = "Invalid path request: " + err.Error()
	}
	c.AbortWithStatusJSON(status, models.GatewayError{Error: msg, Status: status})
}
