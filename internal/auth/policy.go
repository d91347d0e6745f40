package auth

import types "github.com/bazaarlane/admin-backend/internal/domain"

// RolePolicy decides admission for a verified identity's role claim.
type RolePolicy interface {
	Allow(role string) bool
}

// AdminOnly admits the privileged dashboard roles. Empty and unknown claims
// are denied; there is no implicit default role.
type AdminOnly struct{}

func (AdminOnly) Allow(role string) bool {
	return role == types.RoleAdmin || role == types.RoleSuperAdmin
}
