package auth

import "time"

// Role represents a platform-wide user role
type Role string

const (
	RoleAdmin    Role = "ADMIN"    // Platform administrator
	RoleCreative Role = "CREATIVE" // Internal content creator
	RoleClient   Role = "CLIENT"   // Customer-side reviewer/approver
)

// OrgRole represents a role within a single organization
type OrgRole string

const (
	OrgRoleOwner  OrgRole = "OWNER"  // Full control including billing
	OrgRoleAdmin  OrgRole = "ADMIN"  // Manage members and content settings
	OrgRoleMember OrgRole = "MEMBER" // Create and edit content
	OrgRoleViewer OrgRole = "VIEWER" // Read-only access
)

// ValidOrgRoles is the closed set of organization roles. Role strings read from
// storage or requests must be validated against this set at the boundary.
var ValidOrgRoles = map[OrgRole]bool{
	OrgRoleOwner:  true,
	OrgRoleAdmin:  true,
	OrgRoleMember: true,
	OrgRoleViewer: true,
}

// Permission represents a fine-grained capability string
type Permission string

const (
	PermissionIdeasRead      Permission = "ideas:read"
	PermissionIdeasWrite     Permission = "ideas:write"
	PermissionDraftsRead     Permission = "drafts:read"
	PermissionDraftsWrite    Permission = "drafts:write"
	PermissionContentApprove Permission = "content:approve"
	PermissionContentPublish Permission = "content:publish"
	PermissionBillingRead    Permission = "billing:read"
	PermissionBillingWrite   Permission = "billing:write"
	PermissionMembersManage  Permission = "members:manage"
)

// Identity is the authenticated caller resolved from the session store.
// It carries no tenant information; that is added when the organization
// context is resolved.
type Identity struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

// SecurityContext is the verified per-request bundle of identity, tenant and
// role/permission data. It is built once per request after the membership
// check succeeds and must not be mutated afterwards.
type SecurityContext struct {
	UserID           string       `json:"user_id"`
	UserEmail        string       `json:"user_email"`
	OrganizationID   string       `json:"organization_id"`
	IsSuperAdmin     bool         `json:"is_super_admin"`
	UserRole         Role         `json:"user_role"`
	OrganizationRole OrgRole      `json:"organization_role"`
	Permissions      []Permission `json:"permissions"`
}

// HasPermission checks if the context carries a specific permission
func (sc *SecurityContext) HasPermission(perm Permission) bool {
	for _, p := range sc.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Session represents a server-side session record
type Session struct {
	Token        string    `json:"token"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry time
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Identity builds the caller identity carried by this session
func (s *Session) Identity() Identity {
	return Identity{
		UserID:       s.UserID,
		Email:        s.Email,
		Role:         s.Role,
		IsSuperAdmin: s.IsSuperAdmin,
	}
}
