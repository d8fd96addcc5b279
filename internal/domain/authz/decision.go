package authz

import (
	"errors"
	"fmt"
)

type Reason string

const (
	ReasonSuperadminProtected         Reason = "SUPERADMIN_PROTECTED"
	ReasonInsufficientPrivilege       Reason = "INSUFFICIENT_PRIVILEGE"
	ReasonAdminCannotDeleteSuperadmin Reason = "ADMIN_CANNOT_DELETE_SUPERADMIN"
	ReasonAdminCannotDeleteAdmin      Reason = "ADMIN_CANNOT_DELETE_ADMIN"
	ReasonForbidden                   Reason = "FORBIDDEN"
	ReasonSelfGrantForbidden          Reason = "SELF_GRANT_FORBIDDEN"
	ReasonSelfRevokeForbidden         Reason = "SELF_REVOKE_FORBIDDEN"
	ReasonAlreadyPrivileged           Reason = "ALREADY_PRIVILEGED"
	ReasonNotAdmin                    Reason = "NOT_ADMIN"
	ReasonNotFound                    Reason = "NOT_FOUND"
)

var ErrPermissionDenied = errors.New("permission denied")

// Decision is the outcome of every engine check. A denied decision always
// carries a reason.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func Allow() Decision         { return Decision{Allowed: true} }
func Deny(r Reason) Decision { return Decision{Reason: r} }

// Err is nil for an allowed decision and a *DeniedError otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Reason: d.Reason}
}

func (d Decision) String() string {
	if d.Allowed {
		return "ALLOW"
	}
	return "DENY(" + string(d.Reason) + ")"
}

type DeniedError struct {
	Reason Reason
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPermissionDenied, e.Reason)
}

func (e *DeniedError) Is(target error) bool { return target == ErrPermissionDenied }

// ReasonOf extracts the denial reason from err, if any.
func ReasonOf(err error) (Reason, bool) {
	var de *DeniedError
	if errors.As(err, &de) {
		return de.Reason, true
	}
	return "", false
}
