// Package pipeline composes the per-request security stages around route
// handlers.
//
// The Orchestrator runs an ordered sequence of independent stage functions
// (request validation, rate limiting, authentication, tenant context
// resolution, role authorization, input sanitization) and stops at the first
// error. Every request, whichever stage terminates it, produces exactly one
// audit record; stages never log or respond on their own.
//
// Successful responses carry the full security header set from Harden.
// Error responses are plain JSON bodies of the form {"error": "..."} with
// the status derived from the error kind: 401 authentication, 403
// authorization, 429 rate limit, 400 validation, 500 otherwise.
package pipeline
