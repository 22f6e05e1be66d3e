// Package response selects a templated reply given intent, entities,
// conversation history, and session metadata.
package response

import (
	"math/rand"
	"strings"

	"github.com/convograph/dialogd/internal/domain"
	"github.com/convograph/dialogd/internal/intent"
)

const (
	// followupWindow bounds how many trailing context messages feed the
	// keyword-overlap check.
	followupWindow = 3
	// overlapThreshold is the share of current-message keywords that must
	// reappear in recent context to call the message a follow-up.
	overlapThreshold = 0.5
	minKeywordLen    = 3
)

// topicGroups assigns each intent the related-topic groups it belongs to.
// An intent may belong to multiple groups; two intents are on the same
// topic when their group sets intersect. Ungrouped intents
// (troubleshooting, general_inquiry) share a topic with nothing but
// themselves.
var topicGroups = map[domain.Intent][]int{
	domain.IntentOrderStatus:  {0},
	domain.IntentShipping:     {0},
	domain.IntentReturnRefund: {0, 1},
	domain.IntentProductInfo:  {1},
}

var stopWords = map[string]bool{
	"the": true, "this": true, "that": true, "what": true, "when": true,
	"where": true, "which": true, "with": true, "from": true, "have": true,
	"your": true, "about": true, "would": true, "could": true, "should": true,
	"there": true, "their": true, "them": true, "they": true, "will": true,
	"been": true, "does": true, "please": true, "just": true, "into": true,
}

// SameTopic reports whether two intents share a related-topic group.
func SameTopic(a, b domain.Intent) bool {
	for _, ga := range topicGroups[a] {
		for _, gb := range topicGroups[b] {
			if ga == gb {
				return true
			}
		}
	}
	return false
}

// IsTopicShift reports whether moving from previous to current starts a
// new topic. Equal intents never shift; an absent previous intent never
// shifts.
func IsTopicShift(current, previous domain.Intent) bool {
	if previous == "" || previous == current {
		return false
	}
	return !SameTopic(current, previous)
}

// IsFollowup judges whether the current message continues the prior topic.
// Always false with an empty context history.
func IsFollowup(text string, context []domain.Message, meta *domain.Session, current domain.Intent) bool {
	if len(context) == 0 {
		return false
	}

	curKeywords := keywordSet(text)
	ctxKeywords := map[string]bool{}
	start := len(context) - followupWindow
	if start < 0 {
		start = 0
	}
	for _, msg := range context[start:] {
		for kw := range keywordSet(msg.Text) {
			ctxKeywords[kw] = true
		}
	}

	if len(curKeywords) > 0 && len(ctxKeywords) > 0 {
		overlap := 0
		for kw := range curKeywords {
			if ctxKeywords[kw] {
				overlap++
			}
		}
		if float64(overlap)/float64(len(curKeywords)) > overlapThreshold {
			return true
		}
	}

	if meta != nil && meta.UserIntent != "" {
		if meta.UserIntent == current || SameTopic(meta.UserIntent, current) {
			return true
		}
	}

	return len(context) >= 2
}

// keywordSet lowercases the text and keeps tokens longer than
// minKeywordLen that are not stop words.
func keywordSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,!?;:#'\"()")
		if len(tok) <= minKeywordLen || stopWords[tok] {
			continue
		}
		set[tok] = true
	}
	return set
}

// Generator selects templated replies. The random source is injected so
// tests can pin the pick; selection is uniform within a bucket.
type Generator struct {
	randInt func(n int) int
}

// NewGenerator creates a generator. A nil randInt uses math/rand.
func NewGenerator(randInt func(n int) int) *Generator {
	if randInt == nil {
		randInt = rand.Intn
	}
	return &Generator{randInt: randInt}
}

// Generate builds the bot reply for one turn. Context is oldest-first and
// reflects the turns before the current user message; meta may be nil.
func (g *Generator) Generate(text string, current domain.Intent, entities []domain.Entity, context []domain.Message, meta *domain.Session) string {
	set := TemplateSetFor(current)

	shift := false
	if meta != nil {
		shift = IsTopicShift(current, meta.UserIntent)
	}
	followup := IsFollowup(text, context, meta, current)

	orderNumber := firstEntityValue(entities, intent.EntityOrderNumber)
	product := firstEntityValue(entities, intent.EntityProduct)

	var reply string
	switch {
	case orderNumber != "" && len(set.OrderSpecific) > 0:
		reply = strings.ReplaceAll(g.pick(set.OrderSpecific), placeholders[intent.EntityOrderNumber], orderNumber)
	case product != "" && len(set.ProductSpecific) > 0:
		reply = strings.ReplaceAll(g.pick(set.ProductSpecific), placeholders[intent.EntityProduct], product)
	case followup && len(set.FollowUp) > 0:
		reply = g.pick(set.FollowUp)
	default:
		reply = g.pick(set.FirstAsk)
	}

	if shift {
		reply = set.Transition + reply
	}
	return reply
}

func (g *Generator) pick(bucket []string) string {
	if len(bucket) == 1 {
		return bucket[0]
	}
	return bucket[g.randInt(len(bucket))]
}

func firstEntityValue(entities []domain.Entity, entityType string) string {
	for _, e := range entities {
		if e.Type == entityType {
			return e.Value
		}
	}
	return ""
}
