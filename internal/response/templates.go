package response

import "github.com/convograph/dialogd/internal/domain"

// TemplateSet holds the reply buckets for one intent. Buckets are ordered;
// selection within a bucket is uniform and cosmetic only.
type TemplateSet struct {
	FirstAsk        []string
	FollowUp        []string
	OrderSpecific   []string
	ProductSpecific []string
	// Transition prefixes the reply when the conversation shifts onto
	// this intent from an unrelated topic. Empty means no prefix.
	Transition string
}

// placeholders maps entity types to their substitution token. Only entity
// types listed here ever substitute into a template.
var placeholders = map[string]string{
	"order_number": "{order}",
	"product":      "{product}",
}

var templates = map[domain.Intent]TemplateSet{
	domain.IntentOrderStatus: {
		FirstAsk: []string{
			"I'd be happy to help you track your order! Could you please provide your order number?",
			"Let me help you check the status of your order. What's your order number?",
		},
		FollowUp: []string{
			"Thank you! I found your order. It's currently in transit and should arrive within 3-5 business days.",
			"Got it! Your order has been shipped and is on its way to you. You should receive it soon.",
			"Your order is being prepared for shipment. We'll send you a tracking number as soon as it ships!",
		},
		OrderSpecific: []string{
			"Order {order} is currently in transit. Expected delivery is within 3-5 business days.",
			"I found order {order}. It's been shipped and you should see it arrive soon.",
		},
		Transition: "Let's switch over to your order. ",
	},
	domain.IntentProductInfo: {
		FirstAsk: []string{
			"I'd be happy to help! Which product would you like to learn more about?",
			"What product interests you? I can give you all the details.",
		},
		FollowUp: []string{
			"That's a popular choice! We have great reviews on that product. Would you like to know more about pricing or availability?",
			"That product is in stock and ready to ship! Is there anything specific you'd like to know about it?",
			"We have several options available. Would you like pricing information or details about features?",
		},
		ProductSpecific: []string{
			"The {product} is in stock and ready to ship! Would you like pricing or feature details?",
			"Great choice! The {product} has excellent reviews. Is there anything specific you'd like to know about it?",
		},
		Transition: "Sure, let's talk products. ",
	},
	domain.IntentReturnRefund: {
		FirstAsk: []string{
			"I'm sorry you'd like to return something. I can definitely help with that. What's your order number?",
			"I can help process a return for you. Could you provide your order number?",
		},
		FollowUp: []string{
			"Thank you for that information. You're within our 30-day return window, so I can help process this for you.",
			"I can process that return for you. Here's what happens next: we'll send you a return label, you pack the item and drop it off at any shipping location.",
			"Your return request is approved. You'll receive a return label via email. Once we receive the item back, your refund will be processed within 5-7 business days.",
		},
		OrderSpecific: []string{
			"I've started a return for order {order}. You'll receive a return label via email shortly.",
			"Order {order} is eligible for return. Once we receive it back, your refund will be processed within 5-7 business days.",
		},
		Transition: "Okay, let's sort out that return. ",
	},
	domain.IntentTroubleshooting: {
		FirstAsk: []string{
			"I'm sorry you're experiencing an issue. What exactly is happening?",
			"I'd like to help fix this. Can you describe what's going wrong?",
		},
		FollowUp: []string{
			"I understand. Let's troubleshoot this together. First, have you tried refreshing the page or restarting your device?",
			"That sounds frustrating. A few things to try: clear your browser cache, try a different browser, or contact our support team for personalized help.",
			"This might be a technical issue on our end. Let me escalate this to our support team. You'll hear back within 24 hours with a solution.",
		},
		Transition: "Let's take a look at the technical issue. ",
	},
	domain.IntentShipping: {
		FirstAsk: []string{
			"I can help with shipping questions! What would you like to know?",
			"Do you have a question about shipping? I'm here to help.",
		},
		FollowUp: []string{
			"We offer standard shipping (5-7 days) and express shipping (2-3 days). Which option works best for you?",
			"We typically ship within 1-2 business days. Standard delivery is 5-7 days, or you can choose express for 2-3 days.",
			"We offer free shipping on orders over $50! Standard shipping is 5-7 business days. Would you like express shipping instead?",
		},
		Transition: "Switching to shipping. ",
	},
	domain.IntentGeneralInquiry: {
		FirstAsk: []string{
			"Hello! How can I assist you today?",
			"Welcome! What can I help you with?",
		},
		FollowUp: []string{
			"I understand. Let me help you with that.",
			"That's a great question. Here's what I can tell you...",
			"Thanks for asking! Is there anything else I can help you with?",
		},
	},
}

// TemplateSetFor returns the template set for the intent, falling back to
// the general_inquiry set for unknown intents.
func TemplateSetFor(it domain.Intent) TemplateSet {
	if set, ok := templates[it]; ok {
		return set
	}
	return templates[domain.IntentGeneralInquiry]
}
