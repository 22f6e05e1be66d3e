// Package engine orchestrates one dialogue turn: validate, classify, fetch
// context, persist the user turn, update session state, generate the bot
// reply, persist it, and return the structured result.
package engine

import (
	"context"

	"github.com/convograph/dialogd/internal/domain"
	"github.com/convograph/dialogd/internal/intent"
	"github.com/convograph/dialogd/internal/logging"
	"github.com/convograph/dialogd/internal/response"
	"github.com/convograph/dialogd/internal/store"
	"github.com/convograph/dialogd/internal/validation"
)

const (
	// botConfidence is the fixed confidence recorded on bot turns.
	botConfidence = 0.9

	statusSuccess = "success"
	statusError   = "error"

	// genericProcessingError is the only error text a caller ever sees for
	// mid-pipeline failures; the specific cause is logged.
	genericProcessingError = "Failed to process message"
)

// DialogueEngine runs the per-message pipeline. It holds no mutable state;
// every collaborator is injected at construction.
type DialogueEngine struct {
	validator     *validation.Validator
	classifier    *intent.Classifier
	generator     *response.Generator
	sessions      store.SessionStore
	contextWindow int
	log           *logging.Logger
}

// New creates a dialogue engine.
func New(v *validation.Validator, c *intent.Classifier, g *response.Generator, s store.SessionStore, contextWindow int, log *logging.Logger) *DialogueEngine {
	return &DialogueEngine{
		validator:     v,
		classifier:    c,
		generator:     g,
		sessions:      s,
		contextWindow: contextWindow,
		log:           log,
	}
}

// ProcessMessage runs one turn. Validation failures short-circuit before
// any store access; context and metadata reads degrade to empty on store
// failure; write failures yield a generic processing-error result.
func (e *DialogueEngine) ProcessMessage(ctx context.Context, sessionID, userMessage string) domain.TurnResult {
	if err := e.validator.Validate(ctx, userMessage); err != nil {
		reason := err.Error()
		if ve, ok := domain.AsValidationError(err); ok {
			reason = ve.Reason
		}
		return domain.TurnResult{Status: statusError, SessionID: sessionID, Error: reason}
	}
	sanitized := e.validator.Sanitize(userMessage)

	result := e.classifier.Classify(sanitized)

	// Both reads are best-effort: the reply degrades to first-contact
	// behavior rather than aborting the turn.
	contextMsgs, err := e.sessions.GetRecentContext(ctx, sessionID, e.contextWindow)
	if err != nil {
		e.log.Warn().Err(err).Str("session_id", sessionID).Msg("context fetch failed, continuing without history")
		contextMsgs = nil
	}
	meta, err := e.sessions.GetSessionMetadata(ctx, sessionID)
	if err != nil {
		e.log.Warn().Err(err).Str("session_id", sessionID).Msg("metadata fetch failed, continuing without it")
		meta = nil
	}

	confidence := result.Confidence
	entities := result.EntityMap()
	if _, err := e.sessions.AddMessage(ctx, sessionID, domain.SenderUser, sanitized, string(result.Intent), entities, &confidence); err != nil {
		return e.processingError(sessionID, "persist user turn", err)
	}

	// Topic equals intent: the session's rolling topic is its last intent.
	if err := e.sessions.UpdateIntentAndTopic(ctx, sessionID, result.Intent, result.Intent); err != nil {
		return e.processingError(sessionID, "update session intent", err)
	}

	// The reply is generated from the pre-update context and metadata
	// fetched above, so it never sees the just-persisted user turn.
	botText := e.generator.Generate(sanitized, result.Intent, result.Entities, contextMsgs, meta)

	botConf := botConfidence
	if _, err := e.sessions.AddMessage(ctx, sessionID, domain.SenderBot, botText, "response_to_"+string(result.Intent), nil, &botConf); err != nil {
		return e.processingError(sessionID, "persist bot turn", err)
	}

	return domain.TurnResult{
		Status:          statusSuccess,
		SessionID:       sessionID,
		BotResponse:     botText,
		Intent:          result.Intent,
		Confidence:      result.Confidence,
		Entities:        entities,
		IsFollowup:      len(contextMsgs) > 0,
		ContextMessages: len(contextMsgs),
	}
}

func (e *DialogueEngine) processingError(sessionID, stage string, err error) domain.TurnResult {
	e.log.Error().Err(err).Str("session_id", sessionID).Str("stage", stage).Msg("message processing failed")
	return domain.TurnResult{Status: statusError, SessionID: sessionID, Error: genericProcessingError}
}
