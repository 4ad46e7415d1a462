package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qpath-optimizer/backend/internal/models"
	"github.com/qpath-optimizer/backend/internal/service"
	"github.com/qpath-optimizer/backend/pkg/response"
)

// HeatmapHandler serves the population heatmap
type HeatmapHandler struct {
	service *service.HeatmapService
}

// NewHeatmapHandler creates a new heatmap handler
func NewHeatmapHandler(service *service.HeatmapService) *HeatmapHandler {
	return &HeatmapHandler{service: service}
}

// GetHeatmap handles GET /api/v1/heatmap
func (h *HeatmapHandler) GetHeatmap(c *gin.Context) {
	var bounds models.Bounds
	if err := c.ShouldBindQuery(&bounds); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	heatmap, err := h.service.Heatmap(bounds)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get heatmap", err)
		return
	}

	response.Success(c, heatmap)
}
