// Package authz decides who may view, modify, delete or change the privilege
// level of whom. It is pure: no I/O, no clock, safe for concurrent use.
package authz

import (
	"identity-api/internal/domain/user"
)

// CanDelete reports whether caller may soft-delete target.
// Superadmin accounts are never deletable, not even by their owner.
func CanDelete(caller, target *user.User) Decision {
	if target.IsSuperadmin() {
		return Deny(ReasonSuperadminProtected)
	}
	if caller.UUID == target.UUID {
		return Allow()
	}

	return checkTier(caller, target)
}

// CanUpdateProfile reports whether caller may change target's name, surname or email.
func CanUpdateProfile(caller, target *user.User) Decision {
	if caller.UUID == target.UUID {
		return Allow()
	}

	return checkTier(caller, target)
}

// GrantAdmin computes target's roles after adding ADMIN. target is nil when
// no active user with targetID exists.
func GrantAdmin(caller *user.User, targetID user.UUID, target *user.User) (user.RoleSet, Decision) {
	if !caller.IsSuperadmin() {
		return 0, Deny(ReasonForbidden)
	}
	if caller.UUID == targetID {
		return 0, Deny(ReasonSelfGrantForbidden)
	}
	if target == nil {
		return 0, Deny(ReasonNotFound)
	}
	if target.Roles.HasAny(user.RoleAdmin, user.RoleSuperadmin) {
		return target.Roles, Deny(ReasonAlreadyPrivileged)
	}

	return target.Roles.With(user.RoleAdmin), Allow()
}

// RevokeAdmin computes target's roles after removing ADMIN. target is nil when
// no active user with targetID exists.
func RevokeAdmin(caller *user.User, targetID user.UUID, target *user.User) (user.RoleSet, Decision) {
	if !caller.IsSuperadmin() {
		return 0, Deny(ReasonForbidden)
	}
	if target == nil {
		return 0, Deny(ReasonNotFound)
	}
	if !target.IsAdmin() {
		return target.Roles, Deny(ReasonNotAdmin)
	}
	if caller.UUID == targetID {
		return target.Roles, Deny(ReasonSelfRevokeForbidden)
	}

	return target.Roles.Without(user.RoleAdmin), Allow()
}

// checkTier allows only a caller that strictly outranks target.
func checkTier(caller, target *user.User) Decision {
	callerIsAdminOnly := caller.IsAdmin() && !caller.IsSuperadmin()

	switch {
	case !caller.Roles.HasAny(user.RoleAdmin, user.RoleSuperadmin):
		return Deny(ReasonInsufficientPrivilege)
	case target.IsSuperadmin() && callerIsAdminOnly:
		return Deny(ReasonAdminCannotDeleteSuperadmin)
	case target.IsAdmin() && callerIsAdminOnly:
		return Deny(ReasonAdminCannotDeleteAdmin)
	case target.IsSuperadmin() && caller.IsSuperadmin():
		return Deny(ReasonSuperadminProtected)
	}

	return Allow()
}
