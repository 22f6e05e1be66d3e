// Package http provides the echo HTTP handlers for the dialogue service.
package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/convograph/dialogd/internal/config"
	"github.com/convograph/dialogd/internal/engine"
	"github.com/convograph/dialogd/internal/logging"
	"github.com/convograph/dialogd/internal/store"
)

// Handler handles HTTP requests.
type Handler struct {
	engine   *engine.DialogueEngine
	sessions store.SessionStore
	config   *config.Config
	log      *logging.Logger
}

// NewHandler creates a new handler.
func NewHandler(eng *engine.DialogueEngine, sessions store.SessionStore, cfg *config.Config, log *logging.Logger) *Handler {
	return &Handler{
		engine:   eng,
		sessions: sessions,
		config:   cfg,
		log:      log,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)

	e.POST("/session/create", h.CreateSession)
	e.GET("/session/context/:session_id", h.GetSessionContext)

	e.POST("/message/send", h.SendMessage)
	e.GET("/conversation/history/:session_id", h.GetHistory)
	e.GET("/conversation/export/:session_id", h.ExportConversation)

	e.POST("/feedback", h.SubmitFeedback)
	e.GET("/analytics/summary", h.GetAnalyticsSummary)

	e.GET("/health", h.Health)
}

// Index returns a service banner.
func (h *Handler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Dialogue API running",
	})
}

// Health returns a component status snapshot.
func (h *Handler) Health(c echo.Context) error {
	storeStatus := "connected"
	if _, err := h.sessions.AggregateAnalytics(c.Request().Context()); err != nil {
		storeStatus = "unavailable"
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"components": map[string]string{
			"store":      storeStatus,
			"classifier": "loaded",
			"generator":  "loaded",
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
