package domain

import "time"

// Session represents a persisted conversation thread. The interaction count
// always equals the number of messages linked to the session; the store
// maintains that invariant on every write.
type Session struct {
	SessionID        string        `json:"session_id"`
	UserID           string        `json:"user_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	LastInteraction  time.Time     `json:"last_interaction"`
	InteractionCount int           `json:"interaction_count"`
	UserIntent       Intent        `json:"user_intent,omitempty"`
	Topic            Intent        `json:"topic,omitempty"`
	TopicsDiscussed  []string      `json:"topics_discussed,omitempty"`
	Status           SessionStatus `json:"status"`
}

// Message represents a single message in a session. Bot messages carry a
// derived intent label of the form "response_to_<intent>".
type Message struct {
	MessageID  string            `json:"message_id"`
	SessionID  string            `json:"session_id"`
	Sender     Sender            `json:"sender"`
	Text       string            `json:"text"`
	Intent     string            `json:"intent,omitempty"`
	Entities   map[string]string `json:"entities,omitempty"`
	Confidence *float64          `json:"confidence,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	TokenCount int               `json:"token_count"`
	Feedback   Feedback          `json:"feedback,omitempty"`
}

// Entity is a typed value extracted from message text via pattern matching.
type Entity struct {
	Type       string  `json:"entity_type"`
	Value      string  `json:"value"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// IntentResult is the ephemeral output of intent classification for one
// message. It is never persisted as its own entity.
type IntentResult struct {
	Intent     Intent               `json:"intent"`
	Confidence float64              `json:"confidence"`
	Entities   []Entity             `json:"entities"`
	Source     ClassificationSource `json:"source"`
}

// EntityMap flattens the extracted entities to type→value for persistence.
// Later matches of the same type win, matching the original wire shape.
func (r IntentResult) EntityMap() map[string]string {
	if len(r.Entities) == 0 {
		return map[string]string{}
	}
	m := make(map[string]string, len(r.Entities))
	for _, e := range r.Entities {
		m[e.Type] = e.Value
	}
	return m
}

// TurnResult is the structured outcome of processing one user message.
type TurnResult struct {
	Status          string            `json:"status"`
	SessionID       string            `json:"session_id"`
	BotResponse     string            `json:"bot_response,omitempty"`
	Intent          Intent            `json:"intent,omitempty"`
	Confidence      float64           `json:"confidence,omitempty"`
	Entities        map[string]string `json:"entities,omitempty"`
	IsFollowup      bool              `json:"is_followup"`
	ContextMessages int               `json:"context_messages"`
	Error           string            `json:"error,omitempty"`
}

// AnalyticsSummary aggregates usage across all sessions.
type AnalyticsSummary struct {
	TotalSessions         int            `json:"total_sessions"`
	TotalMessages         int            `json:"total_messages"`
	AvgMessagesPerSession float64        `json:"avg_messages_per_session"`
	IntentDistribution    map[string]int `json:"intent_distribution"`
	PositiveFeedbackCount int            `json:"positive_feedback_count"`
	NegativeFeedbackCount int            `json:"negative_feedback_count"`
}
