package models

import "github.com/samber/lo"

const (
	RoleAdmin = "admin"
)

// Principal is the authenticated identity issuing a lifecycle request.
type Principal struct {
	Name  string   `json:"Name"`
	Roles []string `json:"Roles,omitempty"`
}

func NewPrincipal(name string, roles ...string) Principal {
	return Principal{Name: name, Roles: roles}
}

func (p Principal) HasRole(role string) bool {
	return lo.Contains(p.Roles, role)
}

// CanModify reports whether the principal may change jobs owned by owner: its own jobs,
// jobs of an account whose role it holds, or any job for administrators.
func (p Principal) CanModify(owner string) bool {
	return p.Name == owner || p.HasRole(owner) || p.HasRole(RoleAdmin)
}
