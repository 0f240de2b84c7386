package domain

// Principal is the authenticated caller as established by the auth layer.
type Principal struct {
	TenantID     string   `json:"tenant_id"`
	UserID       string   `json:"user_id"`
	Role         string   `json:"role"`
	Roles        []string `json:"roles"`
	IsSuperAdmin bool     `json:"is_superadmin"`
}

// ActorRole is the role recorded on audit entries.
func (p *Principal) ActorRole() string {
	switch {
	case p == nil:
		return UnknownActorRole
	case p.IsSuperAdmin:
		return string(RoleSuperAdmin)
	case p.Role != "":
		return p.Role
	case len(p.Roles) > 0:
		return p.Roles[0]
	}
	return UnknownActorRole
}

// ActorID is the user id recorded on audit entries.
func (p *Principal) ActorID() string {
	if p == nil || p.UserID == "" {
		return UnknownActorRole
	}
	return p.UserID
}

// HasAnyRole checks the primary role and the role list.
func (p *Principal) HasAnyRole(roles ...Role) bool {
	if p == nil {
		return false
	}
	all := p.Roles
	if p.Role != "" {
		all = append([]string{p.Role}, p.Roles...)
	}
	return HasAnyRole(all, roles...)
}
