package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// SendMessage runs one dialogue turn. A missing session_id creates a
// session implicitly.
// POST /message/send
func (h *Handler) SendMessage(c echo.Context) error {
	var req struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Empty message"})
	}

	ctx := c.Request().Context()
	sessionID := req.SessionID
	if sessionID == "" {
		session, err := h.sessions.CreateSession(ctx, "")
		if err != nil {
			h.log.Error().Err(err).Msg("implicit session creation failed")
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		}
		sessionID = session.SessionID
	}

	result := h.engine.ProcessMessage(ctx, sessionID, req.Message)
	if result.Status == "error" {
		return c.JSON(http.StatusBadRequest, result)
	}
	return c.JSON(http.StatusOK, result)
}

// GetHistory returns conversation history for a session.
// GET /conversation/history/:session_id?limit=50
func (h *Handler) GetHistory(c echo.Context) error {
	sessionID := c.Param("session_id")

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = h.config.HistoryLimit
	}

	messages, err := h.sessions.GetRecentContext(c.Request().Context(), sessionID, limit)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("history retrieval failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get history"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"messages":   messages,
		"count":      len(messages),
	})
}

// ExportConversation returns the full history as a downloadable attachment.
// GET /conversation/export/:session_id
func (h *Handler) ExportConversation(c echo.Context) error {
	sessionID := c.Param("session_id")

	messages, err := h.sessions.GetRecentContext(c.Request().Context(), sessionID, h.config.ExportLimit)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("export failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to export conversation"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="conversation_%s.json"`, sessionID))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"messages":   messages,
		"count":      len(messages),
	})
}
