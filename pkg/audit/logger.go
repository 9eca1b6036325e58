package audit

import "context"

// Logger is the interface for audit event sinks
type Logger interface {
	// Log persists an audit event
	Log(ctx context.Context, event *Event) error

	// Close flushes any buffered events and releases resources
	Close() error
}
