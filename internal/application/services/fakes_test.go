package services

import (
	"context"
	"errors"
	"sync"

	"identity-api/internal/domain/user"
)

type FakeUserRepository struct {
	FetchUserByIDFunc    func(ctx context.Context, id user.UUID) (*user.User, error)
	FetchUserByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	CreateUserFunc       func(ctx context.Context, u user.User) (*user.User, error)
	UpdateUserFunc       func(ctx context.Context, id user.UUID, up user.Update) (*user.User, error)
	DeleteUserFunc       func(ctx context.Context, id user.UUID) (*user.User, error)
}

func (f *FakeUserRepository) FetchUserByID(ctx context.Context, id user.UUID) (*user.User, error) {
	if f.FetchUserByIDFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FetchUserByIDFunc(ctx, id)
}
func (f *FakeUserRepository) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.FetchUserByEmailFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FetchUserByEmailFunc(ctx, email)
}
func (f *FakeUserRepository) CreateUser(ctx context.Context, u user.User) (*user.User, error) {
	if f.CreateUserFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreateUserFunc(ctx, u)
}
func (f *FakeUserRepository) UpdateUser(ctx context.Context, id user.UUID, up user.Update) (*user.User, error) {
	if f.UpdateUserFunc == nil {
		return nil, errors.New("not used")
	}
	return f.UpdateUserFunc(ctx, id, up)
}
func (f *FakeUserRepository) DeleteUser(ctx context.Context, id user.UUID) (*user.User, error) {
	if f.DeleteUserFunc == nil {
		return nil, errors.New("not used")
	}
	return f.DeleteUserFunc(ctx, id)
}

// plainHasher "hashes" by prefixing, so tests can assert on the stored value.
type plainHasher struct{ err error }

func (h plainHasher) Hash(plain string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plain, nil
}

func (h plainHasher) Verify(plain, hash string) (bool, error) {
	if hash == "broken" {
		return false, errors.New("malformed hash")
	}
	return hash == "hashed:"+plain, nil
}

type FakeTokens struct {
	IssueTokenFunc  func(subject string) (string, error)
	VerifyTokenFunc func(token string) (string, error)
}

func (f *FakeTokens) IssueToken(subject string) (string, error) { return f.IssueTokenFunc(subject) }
func (f *FakeTokens) VerifyToken(token string) (string, error)  { return f.VerifyTokenFunc(token) }

type recordingPublisher struct {
	mu     sync.Mutex
	events []user.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e user.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []user.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]user.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
