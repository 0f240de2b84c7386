package domain

import "slices"

// Role represents a user role in the system
type Role string

const (
	// RoleSuperAdmin operates the platform and is never tenant scoped
	RoleSuperAdmin Role = "superadmin"

	// RoleAdmin manages a single tenant and may read its audit trail
	RoleAdmin Role = "admin"

	// RoleUser is a regular tenant member
	RoleUser Role = "user"

	// RoleAuditor has read-only access to the tenant's audit trail
	RoleAuditor Role = "auditor"
)

var ValidRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleUser, RoleAuditor}

func IsValidRole(role string) bool {
	return slices.Contains(ValidRoles, Role(role))
}

func HasRole(roles []string, role Role) bool {
	return slices.Contains(roles, string(role))
}

func HasAnyRole(roles []string, requiredRoles ...Role) bool {
	for _, required := range requiredRoles {
		if HasRole(roles, required) {
			return true
		}
	}
	return false
}
