// Package observability provides structured logging and Prometheus metrics
// for the security pipeline.
//
// The Logger wraps stdlib slog with a JSON handler so that every log line is
// machine-parseable. Metrics follow the contentlab_* naming convention and are
// registered against an explicit registry so tests can use isolated registries.
package observability
