package orgs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/savionray/content-lab/pkg/auth"
)

// ErrMembershipNotFound is returned when no membership row exists. Callers
// must not distinguish "organization does not exist" from "user not a member";
// both surface as this error so tenant existence is never leaked.
var ErrMembershipNotFound = errors.New("membership not found")

// MembershipStore looks up organization memberships
type MembershipStore interface {
	// GetMembership returns the membership of a user in an organization,
	// active or not, or ErrMembershipNotFound.
	GetMembership(ctx context.Context, userID, orgID string) (*Membership, error)
}

// PostgresMembershipStore reads memberships from PostgreSQL
type PostgresMembershipStore struct {
	db *sql.DB
}

// NewPostgresMembershipStore creates a Postgres-backed membership store
func NewPostgresMembershipStore(db *sql.DB) *PostgresMembershipStore {
	return &PostgresMembershipStore{db: db}
}

// GetMembership returns the membership of a user in an organization
func (s *PostgresMembershipStore) GetMembership(ctx context.Context, userID, orgID string) (*Membership, error) {
	query := `
		SELECT id, organization_id, user_id, role, permissions, is_active, invited_by, joined_at, created_at
		FROM organization_members
		WHERE user_id = $1 AND organization_id = $2
	`

	member := &Membership{}
	var role string
	var permissions pq.StringArray
	var invitedBy sql.NullString

	err := s.db.QueryRowContext(ctx, query, userID, orgID).Scan(
		&member.ID, &member.OrganizationID, &member.UserID, &role,
		&permissions, &member.IsActive, &invitedBy, &member.JoinedAt, &member.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	orgRole := auth.OrgRole(role)
	if !auth.ValidOrgRoles[orgRole] {
		return nil, fmt.Errorf("invalid organization role %q in membership %s", role, member.ID)
	}
	member.Role = orgRole

	for _, p := range permissions {
		member.Permissions = append(member.Permissions, auth.Permission(p))
	}
	if invitedBy.Valid {
		member.InvitedBy = invitedBy.String
	}

	return member, nil
}

// MemoryMembershipStore is an in-memory membership store for tests
type MemoryMembershipStore struct {
	memberships map[string]*Membership
}

// NewMemoryMembershipStore creates an in-memory membership store
func NewMemoryMembershipStore() *MemoryMembershipStore {
	return &MemoryMembershipStore{
		memberships: make(map[string]*Membership),
	}
}

func memberKey(userID, orgID string) string {
	return userID + "/" + orgID
}

// Add stores a membership record
func (s *MemoryMembershipStore) Add(m *Membership) {
	s.memberships[memberKey(m.UserID, m.OrganizationID)] = m
}

// GetMembership returns the membership of a user in an organization
func (s *MemoryMembershipStore) GetMembership(ctx context.Context, userID, orgID string) (*Membership, error) {
	m, ok := s.memberships[memberKey(userID, orgID)]
	if !ok {
		return nil, ErrMembershipNotFound
	}
	return m, nil
}
