package orgs

import (
	"time"

	"github.com/savionray/content-lab/pkg/auth"
)

// Organization represents an isolated customer account (tenant). All content
// and permissions are scoped beneath it.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Membership is the stored association proving a user belongs to an
// organization with an assigned role. Only active memberships grant access.
type Membership struct {
	ID             string            `json:"id"`
	OrganizationID string            `json:"organization_id"`
	UserID         string            `json:"user_id"`
	Role           auth.OrgRole      `json:"role"`
	Permissions    []auth.Permission `json:"permissions"`
	IsActive       bool              `json:"is_active"`
	InvitedBy      string            `json:"invited_by,omitempty"`
	JoinedAt       time.Time         `json:"joined_at"`
	CreatedAt      time.Time         `json:"created_at"`
}
