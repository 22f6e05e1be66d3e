package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CreateSession creates a new conversation session.
// POST /session/create
func (h *Handler) CreateSession(c echo.Context) error {
	var req struct {
		UserID string `json:"user_id"`
	}
	// Body is optional; ignore decode errors for empty bodies.
	_ = c.Bind(&req)

	session, err := h.sessions.CreateSession(c.Request().Context(), req.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("session creation failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"session_id": session.SessionID,
		"status":     "created",
		"timestamp":  session.CreatedAt.Format(time.RFC3339),
	})
}

// GetSessionContext returns session metadata.
// GET /session/context/:session_id
func (h *Handler) GetSessionContext(c echo.Context) error {
	sessionID := c.Param("session_id")

	meta, err := h.sessions.GetSessionMetadata(c.Request().Context(), sessionID)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("metadata lookup failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get session"})
	}
	if meta == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Session not found"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"metadata":   meta,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}
