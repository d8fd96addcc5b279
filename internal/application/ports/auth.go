package ports

import (
	"context"
	"errors"

	"identity-api/internal/domain/user"
)

// ErrInvalidCredentials covers unknown users, wrong passwords and tokens whose
// subject no longer resolves to an active user.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Auth interface {
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, token string) (*user.User, error)
}

type TokenService interface {
	IssueToken(subject string) (string, error)
	VerifyToken(token string) (string, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) (bool, error)
}
