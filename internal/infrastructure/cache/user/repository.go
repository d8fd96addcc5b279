package user

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"identity-api/internal/domain/user"
)

// Store is the cache the decorator reads through. *cache.Cache satisfies it.
type Store interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error)
	Del(ctx context.Context, keys ...string) error
}

// Repository caches active users by id and by email in front of another
// user.Repository. Every mutation evicts the affected keys before returning.
type Repository struct {
	next  user.Repository
	store Store
	ttl   time.Duration
	log   *zap.Logger
}

func NewRepository(next user.Repository, store Store, ttl time.Duration, logger *zap.Logger) user.Repository {
	return &Repository{
		next:  next,
		store: store,
		ttl:   ttl,
		log:   logger,
	}
}

func idKey(id user.UUID) string { return "user:id:" + id.String() }

func emailKey(email string) string { return "user:email:" + strings.ToLower(email) }

func (r *Repository) FetchUserByID(ctx context.Context, id user.UUID) (*user.User, error) {
	return r.read(ctx, idKey(id), func(ctx context.Context) (*user.User, error) {
		return r.next.FetchUserByID(ctx, id)
	})
}

func (r *Repository) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.read(ctx, emailKey(email), func(ctx context.Context) (*user.User, error) {
		return r.next.FetchUserByEmail(ctx, email)
	})
}

func (r *Repository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	return r.next.CreateUser(ctx, req)
}

func (r *Repository) UpdateUser(ctx context.Context, id user.UUID, req user.Update) (*user.User, error) {
	keys := []string{idKey(id)}
	if req.Email != nil {
		prev, err := r.next.FetchUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if prev != nil {
			keys = append(keys, emailKey(prev.Email))
		}
	}

	u, err := r.next.UpdateUser(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if u != nil {
		keys = append(keys, emailKey(u.Email))
	}
	r.evict(ctx, keys...)

	return u, nil
}

func (r *Repository) DeleteUser(ctx context.Context, id user.UUID) (*user.User, error) {
	u, err := r.next.DeleteUser(ctx, id)
	if err != nil {
		return nil, err
	}
	keys := []string{idKey(id)}
	if u != nil {
		keys = append(keys, emailKey(u.Email))
	}
	r.evict(ctx, keys...)

	return u, nil
}

func (r *Repository) read(ctx context.Context, key string, load func(context.Context) (*user.User, error)) (*user.User, error) {
	b, err := r.store.GetOrLoad(ctx, key, r.ttl, func(ctx context.Context) ([]byte, error) {
		u, err := load(ctx)
		if err != nil || u == nil {
			return nil, err
		}
		return json.Marshal(toEntry(u))
	})
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}

	var e entry
	if err = json.Unmarshal(b, &e); err != nil {
		r.log.Warn("corrupt user cache entry, reloading", zap.String("key", key), zap.Error(err))
		r.evict(ctx, key)
		return load(ctx)
	}

	return e.toDomain(), nil
}

func (r *Repository) evict(ctx context.Context, keys ...string) {
	if err := r.store.Del(ctx, keys...); err != nil {
		r.log.Warn("user cache eviction failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
