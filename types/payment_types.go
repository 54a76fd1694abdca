package types

// ThreeDSInitResult is what the gateway returns when a payment is started
// with a callback URL: the buyer's browser must render the HTML content to
// complete authentication before authorization finishes.
type ThreeDSInitResult struct {
	ConversationID string `json:"conversation_id"`
	HTMLContent    string `json:"html_content,omitempty"`
}

// ThreeDSCallback is the form the gateway posts back to the callback URL
// after the buyer finishes (or abandons) the authentication step.
type ThreeDSCallback struct {
	Status           string `json:"status"`
	PaymentID        string `json:"paymentId"`
	ConversationID   string `json:"conversationId"`
	ConversationData string `json:"conversationData,omitempty"`
	MDStatus         string `json:"mdStatus,omitempty"`
}
