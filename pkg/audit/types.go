package audit

import (
	"time"
)

// Action categorizes the security-relevant outcome of a request
type Action string

const (
	ActionAPIAccess            Action = "API_ACCESS"
	ActionAuthenticationFailed Action = "AUTHENTICATION_FAILED"
	ActionAuthorizationFailed  Action = "AUTHORIZATION_FAILED"
	ActionRateLimitExceeded    Action = "RATE_LIMIT_EXCEEDED"
	ActionValidationFailed     Action = "VALIDATION_FAILED"
	ActionInternalError        Action = "INTERNAL_ERROR"
)

// Sentinel actor values used when a request fails before any identity or
// tenant context exists.
const (
	AnonymousUserID = "anonymous"
	NoOrganization  = "none"
)

// Event is one immutable security audit record. Exactly one event is
// produced per inbound request, regardless of which pipeline stage
// terminated it, and events are never mutated after creation.
type Event struct {
	ID             string                 `json:"id"`
	Timestamp      time.Time              `json:"timestamp"`
	RequestID      string                 `json:"request_id"`
	UserID         string                 `json:"user_id"`
	OrganizationID string                 `json:"organization_id"`
	UserEmail      string                 `json:"user_email,omitempty"`
	Action         Action                 `json:"action"`
	Resource       string                 `json:"resource"`
	Method         string                 `json:"method"`
	IPAddress      string                 `json:"ip_address,omitempty"`
	UserAgent      string                 `json:"user_agent,omitempty"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}
