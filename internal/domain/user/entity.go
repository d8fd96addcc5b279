package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	UUID = uuid.UUID
	User struct {
		UUID         UUID
		Name         string
		Surname      string
		Email        string
		PasswordHash string
		IsActive     bool
		Roles        RoleSet

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Users []*User

	// Update is a partial field set; nil fields are left untouched.
	Update struct {
		Name    *string
		Surname *string
		Email   *string
		Roles   *RoleSet
	}
)

func (u *User) IsAdmin() bool      { return u.Roles.Has(RoleAdmin) }
func (u *User) IsSuperadmin() bool { return u.Roles.Has(RoleSuperadmin) }

func (up Update) IsEmpty() bool {
	return up.Name == nil && up.Surname == nil && up.Email == nil && up.Roles == nil
}

// NewUser is the self-registration input. Password is plain text until the
// service hashes it.
type NewUser struct {
	Name     string
	Surname  string
	Email    string
	Password string
}
