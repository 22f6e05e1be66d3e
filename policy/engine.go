// Package policy evaluates the message admission policy via OPA.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decision values returned by the admission policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine holds a prepared rego query for message admission decisions.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine compiles the given rego module and prepares the decision query.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.message_policy.decision"),
		rego.Module("message_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate runs the admission policy over the input. Input carries the
// sanitizable raw text under the "text" key. Returns the decision string.
func (e *Engine) Evaluate(ctx context.Context, input map[string]interface{}) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The default rule should always bind; treat a silent policy as allow.
		return DecisionAllow, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy blocks messages carrying script-injection markers. The
// match is a case-insensitive substring test, so encoded variants are the
// transport layer's problem, not this policy's.
const DefaultPolicy = `
package message_policy

import rego.v1

blacklist := ["<script", "javascript:", "onerror="]

default decision := "allow"

decision := "block" if {
	some pattern in blacklist
	contains(lower(input.text), pattern)
}
`
