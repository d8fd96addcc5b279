package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"identity-api/internal/application/ports"
	"identity-api/internal/domain/authz"
	domain "identity-api/internal/domain/user"
	"identity-api/internal/infrastructure/metrics"
)

type UserService struct {
	userRepository domain.Repository
	hasher         ports.PasswordHasher
	events         ports.EventPublisher
	metrics        *metrics.Metrics
	logger         *zap.Logger
	now            func() time.Time
}

func NewUserService(
	userRepository domain.Repository,
	hasher ports.PasswordHasher,
	events ports.EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		hasher:         hasher,
		events:         events,
		metrics:        m,
		logger:         logger,
		now:            time.Now,
	}
}

func (us *UserService) FindUserByID(ctx context.Context, id domain.UUID) (*domain.User, error) {
	return us.userRepository.FetchUserByID(ctx, id)
}

func (us *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return us.userRepository.FetchUserByEmail(ctx, email)
}

// CreateUser registers a SIMPLE user. A taken email surfaces as
// domain.ErrEmailAlreadyExists from the store, never from a pre-check.
func (us *UserService) CreateUser(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	hash, err := us.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	u, err := us.userRepository.CreateUser(ctx, domain.User{
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     true,
		Roles:        domain.NewRoleSet(domain.RoleSimple),
	})
	if err != nil {
		return nil, err
	}

	us.publish(ctx, domain.EventCreated, u, uuid.Nil)
	us.metrics.Counter.WithLabelValues("user_created_total").Inc()

	return u, nil
}

func (us *UserService) UpdateUser(ctx context.Context, caller *domain.User, id domain.UUID, in domain.Update) (domain.UUID, error) {
	// roles only change through GrantAdmin / RevokeAdmin
	in.Roles = nil
	if in.IsEmpty() {
		return uuid.Nil, domain.ErrEmptyUpdate
	}

	target, err := us.activeTarget(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if err = us.check("update", authz.CanUpdateProfile(caller, target)); err != nil {
		return uuid.Nil, err
	}

	u, err := us.userRepository.UpdateUser(ctx, id, in)
	if err != nil {
		return uuid.Nil, err
	}
	if u == nil {
		return uuid.Nil, domain.ErrNotFound
	}

	us.publish(ctx, domain.EventUpdated, u, caller.UUID)
	us.metrics.Counter.WithLabelValues("user_updated_total").Inc()

	return u.UUID, nil
}

func (us *UserService) DeleteUser(ctx context.Context, caller *domain.User, id domain.UUID) (domain.UUID, error) {
	target, err := us.activeTarget(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if err = us.check("delete", authz.CanDelete(caller, target)); err != nil {
		return uuid.Nil, err
	}

	u, err := us.userRepository.DeleteUser(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	// lost a race with another delete
	if u == nil {
		return uuid.Nil, domain.ErrNotFound
	}

	us.publish(ctx, domain.EventDeleted, u, caller.UUID)
	us.metrics.Counter.WithLabelValues("user_deleted_total").Inc()

	return u.UUID, nil
}

func (us *UserService) GrantAdmin(ctx context.Context, caller *domain.User, id domain.UUID) (domain.UUID, error) {
	target, err := us.userRepository.FetchUserByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}

	roles, decision := authz.GrantAdmin(caller, id, target)
	if err = us.check("grant_admin", decision); err != nil {
		return uuid.Nil, err
	}

	return us.setRoles(ctx, caller, id, roles, domain.EventAdminGranted)
}

func (us *UserService) RevokeAdmin(ctx context.Context, caller *domain.User, id domain.UUID) (domain.UUID, error) {
	target, err := us.userRepository.FetchUserByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}

	roles, decision := authz.RevokeAdmin(caller, id, target)
	if err = us.check("revoke_admin", decision); err != nil {
		return uuid.Nil, err
	}

	return us.setRoles(ctx, caller, id, roles, domain.EventAdminRevoked)
}

func (us *UserService) setRoles(
	ctx context.Context,
	caller *domain.User,
	id domain.UUID,
	roles domain.RoleSet,
	event domain.EventType,
) (domain.UUID, error) {
	u, err := us.userRepository.UpdateUser(ctx, id, domain.Update{Roles: &roles})
	if err != nil {
		return uuid.Nil, err
	}
	if u == nil {
		return uuid.Nil, domain.ErrNotFound
	}

	us.publish(ctx, event, u, caller.UUID)

	return u.UUID, nil
}

func (us *UserService) activeTarget(ctx context.Context, id domain.UUID) (*domain.User, error) {
	u, err := us.userRepository.FetchUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (us *UserService) check(operation string, d authz.Decision) error {
	result := "allow"
	if !d.Allowed {
		result = "deny"
		us.logger.Debug("authorization denied",
			zap.String("operation", operation),
			zap.String("reason", string(d.Reason)),
		)
	}
	us.metrics.AuthzDecision.WithLabelValues(operation, result).Inc()

	return d.Err()
}

func (us *UserService) publish(ctx context.Context, t domain.EventType, u *domain.User, actor domain.UUID) {
	us.events.Publish(ctx, domain.Event{
		Type:       t,
		User:       *u,
		Actor:      actor,
		OccurredAt: us.now().UTC(),
	})
}
