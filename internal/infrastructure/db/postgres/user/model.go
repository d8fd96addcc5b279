package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
		UserID       uuid.UUID
		Name         string
		Surname      string
		Email        string
		PasswordHash string
		IsActive     bool
		Roles        []string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
)
