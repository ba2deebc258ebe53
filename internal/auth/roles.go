package auth

import (
	"sort"
	"strings"
)

type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleEmployee  Role = "Employee"
	RoleUser      Role = "User"
	RoleUserAdmin Role = "UserAdmin"
)

// AllRoles lists every role the store knows about, in seed order.
var AllRoles = []Role{RoleAdmin, RoleEmployee, RoleUser, RoleUserAdmin}

// ParseRole matches name case-insensitively against the known roles.
func ParseRole(name string) (Role, bool) {
	name = strings.TrimSpace(name)
	for _, role := range AllRoles {
		if strings.EqualFold(string(role), name) {
			return role, true
		}
	}
	return "", false
}

// RoleSet is flat membership; roles do not imply each other.
type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// RoleSetFromStrings keeps only known role names.
func RoleSetFromStrings(names []string) RoleSet {
	set := make(RoleSet, len(names))
	for _, name := range names {
		if role, ok := ParseRole(name); ok {
			set[role] = struct{}{}
		}
	}
	return set
}

func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

func (s RoleSet) HasAny(roles ...Role) bool {
	for _, role := range roles {
		if s.Has(role) {
			return true
		}
	}
	return false
}

func (s RoleSet) Strings() []string {
	result := make([]string, 0, len(s))
	for role := range s {
		result = append(result, string(role))
	}
	sort.Strings(result)
	return result
}

// Principal is the authenticated caller. UserID may be empty until resolved.
type Principal struct {
	UserID string
	Email  string
	Roles  RoleSet
}

// CanSeeAll reports whether the caller bypasses ownership scoping.
func (p Principal) CanSeeAll() bool {
	return p.Roles.HasAny(RoleAdmin, RoleEmployee)
}
