package ports

import (
	"context"

	"identity-api/internal/domain/user"
)

type UserService interface {
	FindUserByID(ctx context.Context, id user.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	CreateUser(ctx context.Context, in user.NewUser) (*user.User, error)
	UpdateUser(ctx context.Context, caller *user.User, id user.UUID, in user.Update) (user.UUID, error)
	DeleteUser(ctx context.Context, caller *user.User, id user.UUID) (user.UUID, error)
	GrantAdmin(ctx context.Context, caller *user.User, id user.UUID) (user.UUID, error)
	RevokeAdmin(ctx context.Context, caller *user.User, id user.UUID) (user.UUID, error)
}
