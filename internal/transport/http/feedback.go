package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/convograph/dialogd/internal/domain"
)

// SubmitFeedback attaches a positive/negative rating to a message. Invalid
// values are rejected before any store access.
// POST /feedback
func (h *Handler) SubmitFeedback(c echo.Context) error {
	var req struct {
		MessageID string `json:"message_id"`
		Feedback  string `json:"feedback"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	feedback := domain.Feedback(req.Feedback)
	if req.MessageID == "" || !feedback.Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "feedback must be 'positive' or 'negative'"})
	}

	err := h.sessions.RecordFeedback(c.Request().Context(), req.MessageID, feedback)
	if errors.Is(err, domain.ErrMessageNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Message not found"})
	}
	if err != nil {
		h.log.Error().Err(err).Str("message_id", req.MessageID).Msg("feedback write failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to record feedback"})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message_id": req.MessageID,
		"status":     "recorded",
	})
}
