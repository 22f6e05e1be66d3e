// Package store defines the session persistence contract and its SQLite
// implementation.
package store

import (
	"context"

	"github.com/convograph/dialogd/internal/domain"
)

// SessionStore is the persistence collaborator for sessions and messages.
// The conversation graph is session nodes linked to ordered message nodes;
// implementations own per-session consistency for every single-session
// write.
type SessionStore interface {
	// CreateSession allocates a new session with zeroed counters and
	// active status. userID may be empty.
	CreateSession(ctx context.Context, userID string) (*domain.Session, error)

	// AddMessage links a new message to the session, increments the
	// interaction count, and bumps last_interaction. Returns
	// domain.ErrSessionNotFound when the session does not exist.
	AddMessage(ctx context.Context, sessionID string, sender domain.Sender, text string, intentLabel string, entities map[string]string, confidence *float64) (*domain.Message, error)

	// GetRecentContext returns the most recent n messages, oldest first.
	// A missing or empty session yields an empty slice, never an error,
	// so a stale session id cannot abort a turn.
	GetRecentContext(ctx context.Context, sessionID string, n int) ([]domain.Message, error)

	// GetSessionMetadata returns nil (no error) when the session is absent.
	GetSessionMetadata(ctx context.Context, sessionID string) (*domain.Session, error)

	// UpdateIntentAndTopic sets the session's last intent; the topic is
	// only written when non-empty and is appended to topics_discussed if
	// not already present.
	UpdateIntentAndTopic(ctx context.Context, sessionID string, intent domain.Intent, topic domain.Intent) error

	// RecordFeedback attaches a rating to a message. Returns
	// domain.ErrMessageNotFound for unknown message ids.
	RecordFeedback(ctx context.Context, messageID string, feedback domain.Feedback) error

	// CloseSession marks a session closed. Sessions are never deleted.
	CloseSession(ctx context.Context, sessionID string) error

	// AggregateAnalytics summarizes usage across all sessions.
	AggregateAnalytics(ctx context.Context) (*domain.AnalyticsSummary, error)

	Close() error
}
