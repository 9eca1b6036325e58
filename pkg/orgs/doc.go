// Package orgs provides tenant isolation for the security pipeline.
//
// The Resolver turns an authenticated identity plus a client-supplied tenant
// hint (x-organization-id header, selectedOrganizationId cookie fallback)
// into a verified auth.SecurityContext by checking for an active membership
// record. Missing and inactive memberships are indistinguishable to callers.
package orgs
