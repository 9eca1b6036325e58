package orgs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/savionray/content-lab/pkg/auth"
)

// OrgIDHeader is the request header carrying the tenant hint
const OrgIDHeader = "x-organization-id"

// OrgIDCookie is the fallback cookie carrying the tenant hint
const OrgIDCookie = "selectedOrganizationId"

// ErrOrgContextRequired is returned when a tenant-scoped route receives no
// organization hint at all.
var ErrOrgContextRequired = errors.New("Organization context required")

// ErrNotMember is returned when the caller has no active membership in the
// requested organization. The message intentionally does not reveal whether
// the organization itself exists.
var ErrNotMember = errors.New("User not member of organization")

// Resolver maps an authenticated identity plus a client-supplied tenant hint
// into a verified SecurityContext.
type Resolver struct {
	store MembershipStore
}

// NewResolver creates an organization context resolver
func NewResolver(store MembershipStore) *Resolver {
	return &Resolver{store: store}
}

// OrgHint reads the tenant hint from the request: x-organization-id header
// first, selectedOrganizationId cookie as fallback. Empty when neither is set.
func OrgHint(r *http.Request) string {
	if orgID := r.Header.Get(OrgIDHeader); orgID != "" {
		return orgID
	}
	if cookie, err := r.Cookie(OrgIDCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// Resolve verifies that the identity holds an active membership in the hinted
// organization and assembles the SecurityContext. The context is only ever
// constructed from a verified membership; on any failure it is nil.
func (res *Resolver) Resolve(r *http.Request, identity auth.Identity) (*auth.SecurityContext, error) {
	orgID := OrgHint(r)
	if orgID == "" {
		return nil, ErrOrgContextRequired
	}

	member, err := res.store.GetMembership(r.Context(), identity.UserID, orgID)
	if err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			return nil, ErrNotMember
		}
		return nil, fmt.Errorf("membership lookup failed: %w", err)
	}
	if !member.IsActive {
		return nil, ErrNotMember
	}

	return &auth.SecurityContext{
		UserID:           identity.UserID,
		UserEmail:        identity.Email,
		OrganizationID:   orgID,
		IsSuperAdmin:     identity.IsSuperAdmin,
		UserRole:         identity.Role,
		OrganizationRole: member.Role,
		Permissions:      member.Permissions,
	}, nil
}
