package user

import (
	"github.com/google/uuid"
)

type (
	User struct {
		UserID   uuid.UUID `json:"user_id"`
		Name     string    `json:"name"`
		Surname  string    `json:"surname"`
		Email    string    `json:"email"`
		IsActive bool      `json:"is_active"`
	}
	Deleted struct {
		DeletedUserID uuid.UUID `json:"deleted_user_id"`
	}
	Updated struct {
		UpdatedUserID uuid.UUID `json:"updated_user_id"`
	}
	Token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
)
