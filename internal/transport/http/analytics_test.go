package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convograph/dialogd/internal/domain"
)

func TestGetAnalyticsSummary(t *testing.T) {
	e := echo.New()
	h, db := newTestHandler(t)
	ctx := context.Background()

	session, err := db.CreateSession(ctx, "")
	require.NoError(t, err)
	_, err = db.AddMessage(ctx, session.SessionID, domain.SenderUser, "where is my order", "order_status", nil, nil)
	require.NoError(t, err)
	_, err = db.AddMessage(ctx, session.SessionID, domain.SenderBot, "checking", "response_to_order_status", nil, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/analytics/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.GetAnalyticsSummary(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var summary domain.AnalyticsSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.TotalSessions)
	assert.Equal(t, 2, summary.TotalMessages)
	assert.InDelta(t, 2.0, summary.AvgMessagesPerSession, 1e-9)
	assert.Equal(t, 1, summary.IntentDistribution["order_status"])
}
