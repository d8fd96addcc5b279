package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"identity-api/internal/application/ports"
	"identity-api/internal/domain/user"
)

var (
	ErrPasswordRequired = errors.New("password is required to create a superadmin")
	ErrProfileRequired  = errors.New("name and surname are required to create a superadmin")
)

// Provisioner is the only path that assigns SUPERADMIN. It runs out of band,
// never behind the HTTP API.
type Provisioner struct {
	userRepository user.Repository
	hasher         ports.PasswordHasher
	events         ports.EventPublisher
	logger         *zap.Logger
}

func NewProvisioner(
	userRepository user.Repository,
	hasher ports.PasswordHasher,
	events ports.EventPublisher,
	logger *zap.Logger,
) *Provisioner {
	return &Provisioner{
		userRepository: userRepository,
		hasher:         hasher,
		events:         events,
		logger:         logger,
	}
}

// EnsureSuperadmin promotes the active user with in.Email, or creates one with
// {SIMPLE, SUPERADMIN} when none exists. created reports which happened.
func (p *Provisioner) EnsureSuperadmin(ctx context.Context, in user.NewUser) (u *user.User, created bool, err error) {
	in.Email = NormalizeEmail(in.Email)

	existing, err := p.userRepository.FetchUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, false, err
	}

	if existing != nil {
		if existing.IsSuperadmin() {
			p.logger.Info("user is already superadmin", zap.Stringer("user_uuid", existing.UUID))
			return existing, false, nil
		}
		roles := existing.Roles.With(user.RoleSuperadmin)
		u, err = p.userRepository.UpdateUser(ctx, existing.UUID, user.Update{Roles: &roles})
		if err != nil {
			return nil, false, err
		}
		if u == nil {
			return nil, false, user.ErrNotFound
		}
		p.events.Publish(ctx, user.Event{Type: user.EventUpdated, User: *u})
		p.logger.Info("user promoted to superadmin", zap.Stringer("user_uuid", u.UUID))
		return u, false, nil
	}

	if in.Password == "" {
		return nil, false, ErrPasswordRequired
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Surname) == "" {
		return nil, false, ErrProfileRequired
	}
	hash, err := p.hasher.Hash(in.Password)
	if err != nil {
		return nil, false, fmt.Errorf("provision superadmin: %w", err)
	}
	u, err = p.userRepository.CreateUser(ctx, user.User{
		UUID:         uuid.New(),
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     true,
		Roles:        user.NewRoleSet(user.RoleSimple, user.RoleSuperadmin),
	})
	if err != nil {
		return nil, false, err
	}

	p.events.Publish(ctx, user.Event{Type: user.EventCreated, User: *u})
	p.logger.Info("superadmin created", zap.Stringer("user_uuid", u.UUID))

	return u, true, nil
}
