package store_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convograph/dialogd/internal/domain"
	"github.com/convograph/dialogd/tests/helpers"
)

func TestCreateSession(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "u1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(session.SessionID, "session_"))
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, domain.SessionStatusActive, session.Status)
	assert.Equal(t, 0, session.InteractionCount)

	got, err := s.GetSessionMetadata(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.SessionID, got.SessionID)
	assert.Equal(t, "u1", got.UserID)
}

func TestGetSessionMetadataAbsent(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)

	got, err := s.GetSessionMetadata(context.Background(), "session_missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAddMessageMaintainsCounters(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "")
	require.NoError(t, err)

	conf := 0.9
	msg, err := s.AddMessage(ctx, session.SessionID, domain.SenderUser, "where is my order", "order_status",
		map[string]string{"order_number": "1234"}, &conf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msg.MessageID, "msg_"))
	assert.Equal(t, 4, msg.TokenCount)

	_, err = s.AddMessage(ctx, session.SessionID, domain.SenderBot, "let me check", "response_to_order_status", nil, &conf)
	require.NoError(t, err)

	meta, err := s.GetSessionMetadata(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, 2, meta.InteractionCount)
	assert.False(t, meta.LastInteraction.Before(meta.CreatedAt))
}

func TestAddMessageMissingSession(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)

	_, err := s.AddMessage(context.Background(), "session_missing", domain.SenderUser, "hi", "", nil, nil)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestGetRecentContextWindow(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "")
	require.NoError(t, err)

	texts := []string{"first", "second", "third", "fourth"}
	for _, text := range texts {
		_, err := s.AddMessage(ctx, session.SessionID, domain.SenderUser, text, "", nil, nil)
		require.NoError(t, err)
	}

	window, err := s.GetRecentContext(ctx, session.SessionID, 2)
	require.NoError(t, err)
	require.Len(t, window, 2)

	// Most recent two, oldest first.
	assert.Equal(t, "third", window[0].Text)
	assert.Equal(t, "fourth", window[1].Text)
}

func TestGetRecentContextMissingSession(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)

	window, err := s.GetRecentContext(context.Background(), "session_missing", 6)
	require.NoError(t, err)
	assert.Empty(t, window)
}

func TestMessageRoundTrip(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "")
	require.NoError(t, err)

	conf := 0.85
	entities := map[string]string{"product": "laptop", "amount": "$49.99"}
	_, err = s.AddMessage(ctx, session.SessionID, domain.SenderUser, "laptop for $49.99", "product_info", entities, &conf)
	require.NoError(t, err)

	window, err := s.GetRecentContext(ctx, session.SessionID, 1)
	require.NoError(t, err)
	require.Len(t, window, 1)

	got := window[0]
	assert.Equal(t, domain.SenderUser, got.Sender)
	assert.Equal(t, "product_info", got.Intent)
	assert.Equal(t, entities, got.Entities)
	require.NotNil(t, got.Confidence)
	assert.InDelta(t, 0.85, *got.Confidence, 1e-9)
}

func TestUpdateIntentAndTopic(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "")
	require.NoError(t, err)

	require.NoError(t, s.UpdateIntentAndTopic(ctx, session.SessionID, domain.IntentOrderStatus, domain.IntentOrderStatus))
	require.NoError(t, s.UpdateIntentAndTopic(ctx, session.SessionID, domain.IntentShipping, domain.IntentShipping))
	// Repeats must not duplicate topics_discussed entries.
	require.NoError(t, s.UpdateIntentAndTopic(ctx, session.SessionID, domain.IntentOrderStatus, domain.IntentOrderStatus))

	meta, err := s.GetSessionMetadata(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, domain.IntentOrderStatus, meta.UserIntent)
	assert.Equal(t, domain.IntentOrderStatus, meta.Topic)
	assert.Equal(t, []string{"order_status", "shipping"}, meta.TopicsDiscussed)
}

func TestUpdateIntentKeepsTopicWhenEmpty(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "")
	require.NoError(t, err)

	require.NoError(t, s.UpdateIntentAndTopic(ctx, session.SessionID, domain.IntentShipping, domain.IntentShipping))
	require.NoError(t, s.UpdateIntentAndTopic(ctx, session.SessionID, domain.IntentProductInfo, ""))

	meta, err := s.GetSessionMetadata(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, domain.IntentProductInfo, meta.UserIntent)
	assert.Equal(t, domain.IntentShipping, meta.Topic)
	assert.Equal(t, []string{"shipping"}, meta.TopicsDiscussed)
}

func TestRecordFeedback(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "")
	require.NoError(t, err)
	msg, err := s.AddMessage(ctx, session.SessionID, domain.SenderBot, "reply", "", nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.RecordFeedback(ctx, msg.MessageID, domain.FeedbackPositive))

	window, err := s.GetRecentContext(ctx, session.SessionID, 1)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, domain.FeedbackPositive, window[0].Feedback)

	assert.ErrorIs(t, s.RecordFeedback(ctx, "msg_missing", domain.FeedbackNegative), domain.ErrMessageNotFound)
}

func TestCloseSession(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "")
	require.NoError(t, err)

	require.NoError(t, s.CloseSession(ctx, session.SessionID))

	meta, err := s.GetSessionMetadata(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, domain.SessionStatusClosed, meta.Status)

	assert.ErrorIs(t, s.CloseSession(ctx, "session_missing"), domain.ErrSessionNotFound)
}

func TestAggregateAnalytics(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	empty, err := s.AggregateAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalSessions)
	assert.Equal(t, 0.0, empty.AvgMessagesPerSession)

	s1, err := s.CreateSession(ctx, "")
	require.NoError(t, err)
	s2, err := s.CreateSession(ctx, "")
	require.NoError(t, err)

	_, err = s.AddMessage(ctx, s1.SessionID, domain.SenderUser, "where is my order", "order_status", nil, nil)
	require.NoError(t, err)
	bot, err := s.AddMessage(ctx, s1.SessionID, domain.SenderBot, "let me check", "response_to_order_status", nil, nil)
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, s2.SessionID, domain.SenderUser, "refund please", "return_refund", nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.RecordFeedback(ctx, bot.MessageID, domain.FeedbackNegative))

	summary, err := s.AggregateAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalSessions)
	assert.Equal(t, 3, summary.TotalMessages)
	assert.InDelta(t, 1.5, summary.AvgMessagesPerSession, 1e-9)
	assert.Equal(t, map[string]int{"order_status": 1, "return_refund": 1}, summary.IntentDistribution)
	assert.Equal(t, 0, summary.PositiveFeedbackCount)
	assert.Equal(t, 1, summary.NegativeFeedbackCount)
}
