package models

// Defaults applied when the webhook reply omits a field
const (
	DefaultIntent = "Unknown"
	DefaultReply  = "Thanks for your message."
)

// LeadRequest represents an inbound lead message
type LeadRequest struct {
	Message string `json:"message" binding:"required"`
}

// Classification holds the attributes the automation extracted from a lead.
// Values are passed through from the webhook untouched, so a field may hold
// a non-string value when the workflow sends one.
type Classification struct {
	Intent      any `json:"intent"`
	Name        any `json:"name"`
	Company     any `json:"company"`
	Requirement any `json:"requirement"`
	CreatedAt   any `json:"created_at"`
}

// LeadResponse is the stable contract returned by POST /lead
type LeadResponse struct {
	Classification Classification `json:"classification"`
	Reply          any            `json:"reply"`
}

// WebhookRequest is the body sent to the automation webhook
type WebhookRequest struct {
	Message string `json:"message"`
}

// StatusResponse is returned by GET /
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Detail string `json:"detail"`
	Errors any    `json:"errors,omitempty"`
}
