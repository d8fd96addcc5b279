package user

import (
	"context"
)

// Repository is the User Store. Lookups and mutations only see active rows;
// a missing row is reported as (nil, nil).
type Repository interface {
	FetchUserByID(ctx context.Context, uuid UUID) (*User, error)
	FetchUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, req User) (*User, error)
	UpdateUser(ctx context.Context, uuid UUID, req Update) (*User, error)
	DeleteUser(ctx context.Context, uuid UUID) (*User, error)
}
