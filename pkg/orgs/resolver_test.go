package orgs

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/savionray/content-lab/pkg/auth"
)

func testIdentity() auth.Identity {
	return auth.Identity{
		UserID: "u1",
		Email:  "u1@example.com",
		Role:   auth.RoleCreative,
	}
}

func activeMembership(userID, orgID string, role auth.OrgRole) *Membership {
	return &Membership{
		ID:             "m-" + userID + "-" + orgID,
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
		Permissions:    []auth.Permission{auth.PermissionIdeasRead, auth.PermissionIdeasWrite},
		IsActive:       true,
		JoinedAt:       time.Now(),
		CreatedAt:      time.Now(),
	}
}

func TestOrgHint_HeaderWinsOverCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
	r.Header.Set(OrgIDHeader, "org-header")
	r.AddCookie(&http.Cookie{Name: OrgIDCookie, Value: "org-cookie"})

	if hint := OrgHint(r); hint != "org-header" {
		t.Errorf("OrgHint = %q, want org-header", hint)
	}
}

func TestOrgHint_CookieFallback(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
	r.AddCookie(&http.Cookie{Name: OrgIDCookie, Value: "org-cookie"})

	if hint := OrgHint(r); hint != "org-cookie" {
		t.Errorf("OrgHint = %q, want org-cookie", hint)
	}
}

func TestResolver_NoHint(t *testing.T) {
	resolver := NewResolver(NewMemoryMembershipStore())

	r := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
	_, err := resolver.Resolve(r, testIdentity())
	if !errors.Is(err, ErrOrgContextRequired) {
		t.Errorf("err = %v, want ErrOrgContextRequired", err)
	}
}

func TestResolver_NotAMember(t *testing.T) {
	store := NewMemoryMembershipStore()
	store.Add(activeMembership("u1", "org-a", auth.OrgRoleMember))
	resolver := NewResolver(store)

	// u1 is a member of org-a only; the hint asks for org-b
	r := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
	r.Header.Set(OrgIDHeader, "org-b")

	_, err := resolver.Resolve(r, testIdentity())
	if !errors.Is(err, ErrNotMember) {
		t.Errorf("err = %v, want ErrNotMember", err)
	}
}

func TestResolver_InactiveMembership(t *testing.T) {
	store := NewMemoryMembershipStore()
	m := activeMembership("u1", "org-a", auth.OrgRoleMember)
	m.IsActive = false
	store.Add(m)
	resolver := NewResolver(store)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
	r.Header.Set(OrgIDHeader, "org-a")

	_, err := resolver.Resolve(r, testIdentity())
	if !errors.Is(err, ErrNotMember) {
		t.Errorf("err = %v, want ErrNotMember for inactive membership", err)
	}
}

func TestResolver_Success(t *testing.T) {
	store := NewMemoryMembershipStore()
	store.Add(activeMembership("u1", "org-a", auth.OrgRoleAdmin))
	resolver := NewResolver(store)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
	r.Header.Set(OrgIDHeader, "org-a")

	sc, err := resolver.Resolve(r, testIdentity())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if sc.UserID != "u1" || sc.UserEmail != "u1@example.com" {
		t.Errorf("identity fields wrong: %+v", sc)
	}
	if sc.OrganizationID != "org-a" {
		t.Errorf("OrganizationID = %q, want org-a", sc.OrganizationID)
	}
	if sc.OrganizationRole != auth.OrgRoleAdmin {
		t.Errorf("OrganizationRole = %q, want ADMIN", sc.OrganizationRole)
	}
	if !sc.HasPermission(auth.PermissionIdeasWrite) {
		t.Error("permissions from the membership should carry into the context")
	}
}
