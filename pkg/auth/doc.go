// Package auth provides identity resolution for the security pipeline.
//
// The Gate resolves a caller's session from the platform session store and
// fails closed when no valid session exists. Sessions live in Redis in
// multi-instance deployments (RedisSessionStore) or in memory for tests and
// single-node use (MemorySessionStore).
//
// Platform roles (Role) and organization roles (OrgRole) are closed typed
// sets; strings crossing a trust boundary must be checked against
// ValidOrgRoles before use.
package auth
