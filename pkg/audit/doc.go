// Package audit provides the append-only security audit trail.
//
// Every request through the pipeline produces exactly one Event. The
// orchestrator is the only producer; individual pipeline stages never log
// independently, which is what rules out duplicate or missing entries.
//
// Sinks compose: DBLogger persists to PostgreSQL, TieredLogger adds the
// structured-log fallback so audit intent is never silently dropped, and
// QueuedLogger moves the write off the request path behind a bounded queue.
package audit
