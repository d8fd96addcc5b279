package user

import (
	"time"

	"identity-api/internal/domain/user"
)

type entry struct {
	UserID       user.UUID    `json:"user_id"`
	Name         string       `json:"name"`
	Surname      string       `json:"surname"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"password_hash"`
	IsActive     bool         `json:"is_active"`
	Roles        user.RoleSet `json:"roles"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func toEntry(u *user.User) entry {
	return entry{
		UserID:       u.UUID,
		Name:         u.Name,
		Surname:      u.Surname,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		Roles:        u.Roles,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (e entry) toDomain() *user.User {
	return &user.User{
		UUID:         e.UserID,
		Name:         e.Name,
		Surname:      e.Surname,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		IsActive:     e.IsActive,
		Roles:        e.Roles,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
