// Package validation sanitizes and rejects malformed user input.
package validation

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/convograph/dialogd/internal/domain"
	"github.com/convograph/dialogd/policy"
)

// MinMessageLength is a distinct rule from the empty check even though the
// empty check fires first for any zero-length input.
const MinMessageLength = 1

var whitespaceRun = regexp.MustCompile(`\s+`)

// Validator applies the input rules ahead of any store access.
type Validator struct {
	maxLength int
	admission *policy.Engine
}

// New creates a validator with the given maximum message length and
// admission policy engine.
func New(maxLength int, admission *policy.Engine) *Validator {
	return &Validator{maxLength: maxLength, admission: admission}
}

// Validate returns nil for acceptable input or a *domain.ValidationError
// naming the violated rule. Rules run in a fixed order so the reported
// reason is deterministic.
func (v *Validator) Validate(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.NewValidationError("Message cannot be empty")
	}

	// Length rules count characters, not bytes.
	if utf8.RuneCountInString(text) > v.maxLength {
		return domain.NewValidationError(fmt.Sprintf("Message exceeds %d characters", v.maxLength))
	}

	if utf8.RuneCountInString(text) < MinMessageLength {
		return domain.NewValidationError("Message too short")
	}

	decision, err := v.admission.Evaluate(ctx, map[string]interface{}{"text": text})
	if err != nil || decision != policy.DecisionAllow {
		// Fail closed: an unevaluable policy rejects the message.
		return domain.NewValidationError("Invalid message format")
	}

	return nil
}

// Sanitize trims the text and collapses whitespace runs to single spaces.
// Idempotent; applied after validation passes, before any downstream use.
func (v *Validator) Sanitize(text string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
}
