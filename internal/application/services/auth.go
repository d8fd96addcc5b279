package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"identity-api/internal/application/ports"
	"identity-api/internal/domain/user"
)

var ErrFailedToGenerateToken = errors.New("failed to generate token")

type AuthService struct {
	userRepository user.Repository
	hasher         ports.PasswordHasher
	tokens         ports.TokenService
	logger         *zap.Logger
}

func NewAuthService(
	userRepository user.Repository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		hasher:         hasher,
		tokens:         tokens,
		logger:         logger,
	}
}

// Login exchanges credentials for a bearer token whose subject is the email.
// Unknown, inactive and wrong-password logins are indistinguishable.
func (as *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := as.userRepository.FetchUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ports.ErrInvalidCredentials
	}

	ok, err := as.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		as.logger.Error("stored password hash is unusable", zap.Error(err), zap.Stringer("user_uuid", u.UUID))
		return "", ports.ErrInvalidCredentials
	}
	if !ok {
		return "", ports.ErrInvalidCredentials
	}

	token, err := as.tokens.IssueToken(u.Email)
	if err != nil {
		as.logger.Error("IssueToken() error", zap.Error(err), zap.Stringer("user_uuid", u.UUID))
		return "", ErrFailedToGenerateToken
	}

	return token, nil
}

// CurrentUser resolves a bearer token to its live user. Token errors are
// returned unchanged so callers can tell expiry from other failures.
func (as *AuthService) CurrentUser(ctx context.Context, token string) (*user.User, error) {
	subject, err := as.tokens.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	u, err := as.userRepository.FetchUserByEmail(ctx, subject)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ports.ErrInvalidCredentials
	}

	return u, nil
}

func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
