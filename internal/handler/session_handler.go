package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qpath-optimizer/backend/internal/models"
	"github.com/qpath-optimizer/backend/internal/service"
	"github.com/qpath-optimizer/backend/internal/viewstate"
	"github.com/qpath-optimizer/backend/pkg/response"
)

// SessionHandler exposes the control surface and map interaction of a session
type SessionHandler struct {
	sessions *service.SessionService
	routes   *service.RouteService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService, routes *service.RouteService) *SessionHandler {
	return &SessionHandler{sessions: sessions, routes: routes}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	sess, err := h.sessions.Create()
	if err != nil {
		response.InternalError(c, "Failed to create session", err)
		return
	}
	c.JSON(http.StatusCreated, response.Response{Code: 0, Message: "success", Data: sess})
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, sess.State.Snapshot().Response())
}

// Scene handles GET /api/v1/sessions/:id/scene
func (h *SessionHandler) Scene(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, sess.Canvas.Scene())
}

// Control handles POST /api/v1/sessions/:id/controls/:action
func (h *SessionHandler) Control(c *gin.Context) {
	state, err := h.sessions.Control(c.Param("id"), service.Action(c.Param("action")))
	if err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, state.Response())
}

// Click handles POST /api/v1/sessions/:id/click
func (h *SessionHandler) Click(c *gin.Context) {
	var p models.Point
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, "Invalid click position", err)
		return
	}
	state, err := h.sessions.Click(c.Param("id"), p)
	if err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, state.Response())
}

// SetMidpoints handles PUT /api/v1/sessions/:id/midpoints
func (h *SessionHandler) SetMidpoints(c *gin.Context) {
	var points []models.Point
	if err := c.ShouldBindJSON(&points); err != nil {
		response.BadRequest(c, "Invalid midpoints", err)
		return
	}
	state, err := h.sessions.SetMidpoints(c.Param("id"), points)
	if err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, state.Response())
}

// Generate handles POST /api/v1/sessions/:id/generate
func (h *SessionHandler) Generate(c *gin.Context) {
	summary, err := h.routes.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, summary)
}

// History handles GET /api/v1/sessions/:id/routes
func (h *SessionHandler) History(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		response.BadRequest(c, "Invalid limit parameter", err)
		return
	}
	records, err := h.routes.History(c.Param("id"), limit)
	if err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, gin.H{
		"data":  records,
		"count": len(records),
	})
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		sessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// WebSocket handles GET /api/v1/sessions/:id/ws
func (h *SessionHandler) WebSocket(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	sess.Clients.Serve(c.Writer, c.Request)
}

func sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, "Session not found", err)
	case errors.Is(err, service.ErrUnknownAction),
		errors.Is(err, service.ErrInvalidPoint):
		response.BadRequest(c, "Invalid request", err)
	case errors.Is(err, viewstate.ErrEndpointsUnset):
		response.Error(c, http.StatusConflict, "Choose a start and end point first", err)
	default:
		response.Error(c, http.StatusBadGateway, "Route could not be generated", err)
	}
}
