package pipeline

import (
	"fmt"
	"strings"

	"github.com/savionray/content-lab/pkg/auth"
)

// Authorize checks the resolved organization role against a route's
// required-role set. A superadmin satisfies an ADMIN-gated route regardless
// of their organization role, but not gates on other roles. The failure
// message enumerates the required roles without revealing the caller's
// actual role.
func Authorize(sc *auth.SecurityContext, requiredRoles []auth.OrgRole) error {
	if len(requiredRoles) == 0 {
		return nil
	}
	if sc == nil {
		return AuthorizationError(requiredRolesMessage(requiredRoles), nil)
	}

	for _, role := range requiredRoles {
		if sc.OrganizationRole == role {
			return nil
		}
		if role == auth.OrgRoleAdmin && sc.IsSuperAdmin {
			return nil
		}
	}

	return AuthorizationError(requiredRolesMessage(requiredRoles), nil)
}

func requiredRolesMessage(roles []auth.OrgRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return fmt.Sprintf("Insufficient role, requires one of: %s", strings.Join(names, ", "))
}
