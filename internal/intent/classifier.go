// Package intent classifies user messages by deterministic keyword
// matching and extracts typed entities via pattern matching.
package intent

import (
	"regexp"
	"strings"

	"github.com/convograph/dialogd/internal/domain"
)

// Entity type labels.
const (
	EntityOrderNumber = "order_number"
	EntityProduct     = "product"
	EntityAmount      = "amount"
	EntityEmail       = "email"
	EntityDate        = "date"
)

const (
	entityConfidence   = 0.9
	fallbackConfidence = 0.6
	baseConfidence     = 0.85
	perKeywordBoost    = 0.05
	maxMatchConfidence = 0.95
)

// intentKeywords maps each scored intent to its keyword list. Matching is
// case-insensitive substring containment; the lists are tuned so no two
// intents tie on the common phrasings of the domain ("order" alone is
// ambiguous between order tracking and returns and is deliberately absent).
var intentKeywords = map[domain.Intent][]string{
	domain.IntentOrderStatus:     {"status", "track", "where", "shipped"},
	domain.IntentProductInfo:     {"product", "price", "specs", "available", "feature"},
	domain.IntentReturnRefund:    {"return", "refund", "exchange", "money"},
	domain.IntentTroubleshooting: {"broken", "not work", "issue", "problem", "error", "help"},
	domain.IntentShipping:        {"shipping", "delivery", "address", "destination", "transport"},
}

// entityPattern pairs an entity type with its compiled expression. Group 1,
// when present, narrows the match to the value portion (the order-number
// pattern tolerates an "order"/"#"/"number" prefix).
type entityPattern struct {
	entityType string
	re         *regexp.Regexp
	group      int
}

var entityPatterns = []entityPattern{
	{EntityOrderNumber, regexp.MustCompile(`(?i)(?:(?:order|number)\s*#?\s*|#)?(\d{4,})`), 1},
	{EntityProduct, regexp.MustCompile(`(?i)\b(laptop|phone|tablet|headphones|keyboard|mouse|monitor|charger|camera|printer)\b`), 1},
	{EntityAmount, regexp.MustCompile(`\$\d+(?:\.\d{2})?`), 0},
	{EntityEmail, regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`), 0},
	{EntityDate, regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`), 0},
}

// Classifier maps raw text to an intent label, confidence, and extracted
// entities. It is stateless and safe for concurrent use.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify is total and deterministic: every input yields a result.
func (c *Classifier) Classify(text string) domain.IntentResult {
	lower := strings.ToLower(text)

	best := domain.Intent("")
	bestCount := 0
	for _, it := range domain.ClassifiedIntents {
		count := 0
		for _, kw := range intentKeywords[it] {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		// Strict > keeps the first-declared intent on ties.
		if count > bestCount {
			best = it
			bestCount = count
		}
	}

	entities := extractEntities(text)

	if bestCount == 0 {
		return domain.IntentResult{
			Intent:     domain.IntentGeneralInquiry,
			Confidence: fallbackConfidence,
			Entities:   entities,
			Source:     domain.SourceFallback,
		}
	}

	confidence := baseConfidence + perKeywordBoost*float64(bestCount)
	if confidence > maxMatchConfidence {
		confidence = maxMatchConfidence
	}

	return domain.IntentResult{
		Intent:     best,
		Confidence: confidence,
		Entities:   entities,
		Source:     domain.SourceKeywordMatch,
	}
}

// extractEntities scans for every pattern and retains all non-overlapping
// matches per type, in scan order.
func extractEntities(text string) []domain.Entity {
	var entities []domain.Entity
	for _, p := range entityPatterns {
		for _, idx := range p.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := idx[2*p.group], idx[2*p.group+1]
			if start < 0 {
				continue
			}
			entities = append(entities, domain.Entity{
				Type:       p.entityType,
				Value:      text[start:end],
				Start:      start,
				End:        end,
				Confidence: entityConfidence,
			})
		}
	}
	return entities
}
