package user

import (
	"fmt"

	domain "identity-api/internal/domain/user"
)

func fromDBModel(model *User) (*domain.User, error) {
	roles, err := domain.ParseRoleSet(model.Roles)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", model.UserID, err)
	}

	var u = &domain.User{
		UUID:         model.UserID,
		Name:         model.Name,
		Surname:      model.Surname,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		IsActive:     model.IsActive,
		Roles:        roles,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	return u, nil
}
