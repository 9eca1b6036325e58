// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// SecurityContextKey contains the per-request *auth.SecurityContext
	// Set by: pipeline.Orchestrator after the organization context is resolved
	// Required by: All tenant-scoped handlers
	// Type: *auth.SecurityContext
	SecurityContextKey Key = "security_context"

	// RequestIDKey contains the request ID string (req_<millis>_<suffix>)
	// Set by: pipeline.Orchestrator at the start of every request
	// Used by: Logger, audit trail
	// Type: string
	RequestIDKey Key = "request_id"

	// LoggerKey contains *observability.Logger
	// Set by: pipeline.Orchestrator
	// Used by: Handlers that need structured logging with request context
	// Type: *observability.Logger
	LoggerKey Key = "logger"

	// RequestStartTimeKey contains the request start timestamp
	// Set by: pipeline.Orchestrator
	// Used by: Latency calculation for audit records
	// Type: time.Time
	RequestStartTimeKey Key = "request_start_time"
)

// WithSecurityContext adds the security context to the context
func WithSecurityContext(ctx context.Context, sc interface{}) context.Context {
	return context.WithValue(ctx, SecurityContextKey, sc)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger interface{}) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// WithRequestStartTime adds the request start time to the context
func WithRequestStartTime(ctx context.Context, startTime interface{}) context.Context {
	return context.WithValue(ctx, RequestStartTimeKey, startTime)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
