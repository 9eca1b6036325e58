package pipeline

import (
	"testing"

	"github.com/savionray/content-lab/pkg/auth"
)

func memberContext(role auth.OrgRole, superAdmin bool) *auth.SecurityContext {
	return &auth.SecurityContext{
		UserID:           "u1",
		OrganizationID:   "org-a",
		IsSuperAdmin:     superAdmin,
		UserRole:         auth.RoleCreative,
		OrganizationRole: role,
	}
}

func TestAuthorize_NoRequiredRoles(t *testing.T) {
	if err := Authorize(memberContext(auth.OrgRoleViewer, false), nil); err != nil {
		t.Errorf("routes without role gates admit everyone: %v", err)
	}
}

func TestAuthorize_RoleMatch(t *testing.T) {
	err := Authorize(memberContext(auth.OrgRoleMember, false), []auth.OrgRole{auth.OrgRoleAdmin, auth.OrgRoleMember})
	if err != nil {
		t.Errorf("MEMBER should satisfy a MEMBER gate: %v", err)
	}
}

func TestAuthorize_InsufficientRole(t *testing.T) {
	err := Authorize(memberContext(auth.OrgRoleMember, false), []auth.OrgRole{auth.OrgRoleOwner, auth.OrgRoleAdmin})
	if err == nil {
		t.Fatal("MEMBER must not satisfy an OWNER/ADMIN gate")
	}
	want := "Insufficient role, requires one of: OWNER, ADMIN"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestAuthorize_SuperAdminSatisfiesAdminGate(t *testing.T) {
	// A superadmin passes ADMIN gates regardless of their organization role
	err := Authorize(memberContext(auth.OrgRoleViewer, true), []auth.OrgRole{auth.OrgRoleAdmin})
	if err != nil {
		t.Errorf("superadmin should satisfy the ADMIN gate: %v", err)
	}
}

func TestAuthorize_SuperAdminDoesNotSatisfyOtherGates(t *testing.T) {
	err := Authorize(memberContext(auth.OrgRoleViewer, true), []auth.OrgRole{auth.OrgRoleOwner})
	if err == nil {
		t.Error("superadmin privilege is scoped to ADMIN gates only")
	}
}

func TestAuthorize_NilContext(t *testing.T) {
	if err := Authorize(nil, []auth.OrgRole{auth.OrgRoleMember}); err == nil {
		t.Error("a missing context must not pass a role gate")
	}
}
