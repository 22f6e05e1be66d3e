package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/convograph/dialogd/internal/domain"
)

// SQLiteStore implements SessionStore using SQLite. The session→message
// foreign key stands in for the graph store's HAS_MESSAGE edge.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; cap the pool so every
	// statement sees the same one.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			user_id TEXT,
			created_at DATETIME NOT NULL,
			last_interaction DATETIME NOT NULL,
			interaction_count INTEGER NOT NULL DEFAULT 0,
			user_intent TEXT,
			topic TEXT,
			topics_discussed TEXT,
			status TEXT NOT NULL DEFAULT 'active'
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			sender TEXT NOT NULL,
			text TEXT NOT NULL,
			intent TEXT,
			entities TEXT,
			confidence REAL,
			timestamp DATETIME NOT NULL,
			token_count INTEGER NOT NULL DEFAULT 0,
			feedback TEXT,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession creates a new active session with zeroed counters.
func (s *SQLiteStore) CreateSession(ctx context.Context, userID string) (*domain.Session, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		SessionID:       newSessionID(),
		UserID:          userID,
		CreatedAt:       now,
		LastInteraction: now,
		Status:          domain.SessionStatusActive,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_id, created_at, last_interaction, interaction_count, status)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		session.SessionID, nullString(userID), session.CreatedAt, session.LastInteraction, string(session.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// AddMessage inserts a message and updates the session counters in one
// transaction so interaction_count always matches the number of linked
// messages.
func (s *SQLiteStore) AddMessage(ctx context.Context, sessionID string, sender domain.Sender, text string, intentLabel string, entities map[string]string, confidence *float64) (*domain.Message, error) {
	now := time.Now().UTC()
	msg := &domain.Message{
		MessageID:  newMessageID(),
		SessionID:  sessionID,
		Sender:     sender,
		Text:       text,
		Intent:     intentLabel,
		Entities:   entities,
		Confidence: confidence,
		Timestamp:  now,
		TokenCount: len(strings.Fields(text)),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET last_interaction = ?, interaction_count = interaction_count + 1 WHERE session_id = ?`,
		now, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to update session counters: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrSessionNotFound
	}

	var entitiesJSON sql.NullString
	if len(entities) > 0 {
		raw, err := json.Marshal(entities)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal entities: %w", err)
		}
		entitiesJSON = sql.NullString{String: string(raw), Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (message_id, session_id, sender, text, intent, entities, confidence, timestamp, token_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.MessageID, sessionID, string(sender), text, nullString(intentLabel), entitiesJSON, nullFloat(confidence), now, msg.TokenCount)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit message: %w", err)
	}
	return msg, nil
}

// GetRecentContext returns the most recent n messages oldest-first. Missing
// sessions yield an empty slice.
func (s *SQLiteStore) GetRecentContext(ctx context.Context, sessionID string, n int) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, session_id, sender, text, intent, entities, confidence, timestamp, token_count, feedback
		 FROM messages WHERE session_id = ?
		 ORDER BY timestamp DESC, rowid DESC LIMIT ?`,
		sessionID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// GetSessionMetadata returns nil when the session does not exist.
func (s *SQLiteStore) GetSessionMetadata(ctx context.Context, sessionID string) (*domain.Session, error) {
	var (
		session              domain.Session
		userID, intentCol    sql.NullString
		topicCol, topicsJSON sql.NullString
		status               string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, created_at, last_interaction, interaction_count, user_intent, topic, topics_discussed, status
		 FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &userID, &session.CreatedAt, &session.LastInteraction,
		&session.InteractionCount, &intentCol, &topicCol, &topicsJSON, &status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	session.UserID = userID.String
	session.UserIntent = domain.Intent(intentCol.String)
	session.Topic = domain.Intent(topicCol.String)
	session.Status = domain.SessionStatus(status)
	if topicsJSON.Valid && topicsJSON.String != "" {
		if err := json.Unmarshal([]byte(topicsJSON.String), &session.TopicsDiscussed); err != nil {
			return nil, fmt.Errorf("failed to unmarshal topics: %w", err)
		}
	}
	return &session, nil
}

// UpdateIntentAndTopic sets user_intent; topic is only written when
// non-empty and is appended to topics_discussed when new.
func (s *SQLiteStore) UpdateIntentAndTopic(ctx context.Context, sessionID string, intent domain.Intent, topic domain.Intent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var topicsJSON sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT topics_discussed FROM sessions WHERE session_id = ?`, sessionID).Scan(&topicsJSON)
	if err == sql.ErrNoRows {
		return domain.ErrSessionNotFound
	}
	if err != nil {
		return err
	}

	if topic == "" {
		if _, err := tx.ExecContext(ctx,
			`UPDATE sessions SET user_intent = ? WHERE session_id = ?`,
			string(intent), sessionID); err != nil {
			return err
		}
		return tx.Commit()
	}

	var topics []string
	if topicsJSON.Valid && topicsJSON.String != "" {
		if err := json.Unmarshal([]byte(topicsJSON.String), &topics); err != nil {
			return fmt.Errorf("failed to unmarshal topics: %w", err)
		}
	}
	seen := false
	for _, t := range topics {
		if t == string(topic) {
			seen = true
			break
		}
	}
	if !seen {
		topics = append(topics, string(topic))
	}
	raw, err := json.Marshal(topics)
	if err != nil {
		return fmt.Errorf("failed to marshal topics: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET user_intent = ?, topic = ?, topics_discussed = ? WHERE session_id = ?`,
		string(intent), string(topic), string(raw), sessionID); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordFeedback attaches a rating to a message.
func (s *SQLiteStore) RecordFeedback(ctx context.Context, messageID string, feedback domain.Feedback) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE messages SET feedback = ? WHERE message_id = ?`,
		string(feedback), messageID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

// CloseSession marks a session closed.
func (s *SQLiteStore) CloseSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ? WHERE session_id = ?`,
		string(domain.SessionStatusClosed), sessionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// AggregateAnalytics summarizes usage across all sessions.
func (s *SQLiteStore) AggregateAnalytics(ctx context.Context) (*domain.AnalyticsSummary, error) {
	summary := &domain.AnalyticsSummary{IntentDistribution: map[string]int{}}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&summary.TotalSessions); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&summary.TotalMessages); err != nil {
		return nil, err
	}
	if summary.TotalSessions > 0 {
		summary.AvgMessagesPerSession = float64(summary.TotalMessages) / float64(summary.TotalSessions)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT intent, COUNT(*) FROM messages WHERE sender = ? AND intent IS NOT NULL GROUP BY intent`,
		string(domain.SenderUser))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var intent string
		var count int
		if err := rows.Scan(&intent, &count); err != nil {
			return nil, err
		}
		summary.IntentDistribution[intent] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE feedback = ?`, string(domain.FeedbackPositive)).Scan(&summary.PositiveFeedbackCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE feedback = ?`, string(domain.FeedbackNegative)).Scan(&summary.NegativeFeedbackCount); err != nil {
		return nil, err
	}

	return summary, nil
}

func scanMessage(rows *sql.Rows) (*domain.Message, error) {
	var (
		msg                            domain.Message
		sender                         string
		intentCol, entitiesJSON, fbCol sql.NullString
		confidence                     sql.NullFloat64
	)
	if err := rows.Scan(&msg.MessageID, &msg.SessionID, &sender, &msg.Text, &intentCol,
		&entitiesJSON, &confidence, &msg.Timestamp, &msg.TokenCount, &fbCol); err != nil {
		return nil, err
	}
	msg.Sender = domain.Sender(sender)
	msg.Intent = intentCol.String
	msg.Feedback = domain.Feedback(fbCol.String)
	if confidence.Valid {
		c := confidence.Float64
		msg.Confidence = &c
	}
	if entitiesJSON.Valid && entitiesJSON.String != "" {
		if err := json.Unmarshal([]byte(entitiesJSON.String), &msg.Entities); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entities: %w", err)
		}
	}
	return &msg, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func newSessionID() string {
	return "session_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func newMessageID() string {
	return "msg_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
