package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetAnalyticsSummary returns usage aggregates across all sessions.
// GET /analytics/summary
func (h *Handler) GetAnalyticsSummary(c echo.Context) error {
	summary, err := h.sessions.AggregateAnalytics(c.Request().Context())
	if err != nil {
		h.log.Error().Err(err).Msg("analytics aggregation failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to aggregate analytics"})
	}
	return c.JSON(http.StatusOK, summary)
}
