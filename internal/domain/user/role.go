package user

import (
	"fmt"
	"strings"
)

type Role uint8

const (
	RoleSimple Role = 1 << iota
	RoleAdmin
	RoleSuperadmin
)

// Tier is the relative rank of the highest role a user holds.
type Tier uint8

const (
	TierNone Tier = iota
	TierSimple
	TierAdmin
	TierSuperadmin
)

var roleNames = map[Role]string{
	RoleSimple:     "ROLE_USER_SIMPLE",
	RoleAdmin:      "ROLE_USER_ADMIN",
	RoleSuperadmin: "ROLE_USER_SUPERADMIN",
}

// allRoles is ordered by tier, lowest first.
var allRoles = []Role{RoleSimple, RoleAdmin, RoleSuperadmin}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

func ParseRole(s string) (Role, error) {
	for r, n := range roleNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// RoleSet is a set of roles. The zero value is the empty set.
type RoleSet uint8

func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= RoleSet(r)
	}
	return s
}

func (s RoleSet) Has(r Role) bool { return s&RoleSet(r) != 0 }

func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

func (s RoleSet) With(r Role) RoleSet    { return s | RoleSet(r) }
func (s RoleSet) Without(r Role) RoleSet { return s &^ RoleSet(r) }
func (s RoleSet) IsEmpty() bool          { return s == 0 }

func (s RoleSet) Tier() Tier {
	switch {
	case s.Has(RoleSuperadmin):
		return TierSuperadmin
	case s.Has(RoleAdmin):
		return TierAdmin
	case s.Has(RoleSimple):
		return TierSimple
	default:
		return TierNone
	}
}

func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(allRoles))
	for _, r := range allRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Strings returns the storage names, lowest tier first.
func (s RoleSet) Strings() []string {
	rs := s.Roles()
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}

func ParseRoleSet(names []string) (RoleSet, error) {
	var s RoleSet
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return 0, err
		}
		s = s.With(r)
	}
	return s, nil
}

func (s RoleSet) String() string { return "[" + strings.Join(s.Strings(), ",") + "]" }
