// Package domain defines the core domain models for the dialogue service.
package domain

// Intent is a fixed-vocabulary label classifying the purpose of a user message.
type Intent string

const (
	IntentOrderStatus     Intent = "order_status"
	IntentProductInfo     Intent = "product_info"
	IntentReturnRefund    Intent = "return_refund"
	IntentTroubleshooting Intent = "troubleshooting"
	IntentShipping        Intent = "shipping"
	IntentGeneralInquiry  Intent = "general_inquiry"
)

// ClassifiedIntents lists the keyword-scored intents in declaration order.
// Ties in keyword scoring are broken by position in this slice;
// IntentGeneralInquiry is the fallback and is never scored.
var ClassifiedIntents = []Intent{
	IntentOrderStatus,
	IntentProductInfo,
	IntentReturnRefund,
	IntentTroubleshooting,
	IntentShipping,
}

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// SessionStatus represents the lifecycle state of a session.
type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusClosed SessionStatus = "closed"
)

// Feedback is a post-hoc user rating attached to a bot message.
type Feedback string

const (
	FeedbackPositive Feedback = "positive"
	FeedbackNegative Feedback = "negative"
)

// Valid reports whether the feedback value is one of the accepted ratings.
func (f Feedback) Valid() bool {
	return f == FeedbackPositive || f == FeedbackNegative
}

// ClassificationSource records how an intent was derived.
type ClassificationSource string

const (
	SourceKeywordMatch ClassificationSource = "keyword_match"
	SourceFallback     ClassificationSource = "fallback"
)
