package pipeline

import (
	"errors"
	"net/http"

	"github.com/savionray/content-lab/pkg/audit"
)

// Kind classifies a pipeline failure. Every stage error carries exactly one
// kind; the orchestrator is the single place that translates kinds into HTTP
// statuses and audit actions.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthentication
	KindAuthorization
	KindRateLimit
	KindValidation
)

// Error is a pipeline failure with a user-visible message and an optional
// wrapped cause. Message is what the client sees; the cause stays in logs
// and the audit trail is fed the message only, so internal detail never
// leaks through an error response.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AuthenticationError creates a 401-kind error
func AuthenticationError(message string, cause error) *Error {
	return &Error{Kind: KindAuthentication, Message: message, Err: cause}
}

// AuthorizationError creates a 403-kind error
func AuthorizationError(message string, cause error) *Error {
	return &Error{Kind: KindAuthorization, Message: message, Err: cause}
}

// RateLimitError creates a 429-kind error
func RateLimitError(message string) *Error {
	return &Error{Kind: KindRateLimit, Message: message}
}

// ValidationError creates a 400-kind error
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// InternalError creates a 500-kind error with a generic client message
func InternalError(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: cause}
}

// StatusFor maps an error to its HTTP status, defaulting to 500
func StatusFor(err error) int {
	var perr *Error
	if !errors.As(err, &perr) {
		return http.StatusInternalServerError
	}
	switch perr.Kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ActionFor maps an error to the audit action recorded for the request
func ActionFor(err error) audit.Action {
	var perr *Error
	if !errors.As(err, &perr) {
		return audit.ActionInternalError
	}
	switch perr.Kind {
	case KindAuthentication:
		return audit.ActionAuthenticationFailed
	case KindAuthorization:
		return audit.ActionAuthorizationFailed
	case KindRateLimit:
		return audit.ActionRateLimitExceeded
	case KindValidation:
		return audit.ActionValidationFailed
	default:
		return audit.ActionInternalError
	}
}
