package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"identity-api/internal/domain/user"
)

func TestProvisioner_CreatesSuperadmin(t *testing.T) {
	var created user.User
	repo := &FakeUserRepository{
		FetchUserByEmailFunc: func(context.Context, string) (*user.User, error) { return nil, nil },
		CreateUserFunc: func(_ context.Context, u user.User) (*user.User, error) {
			created = u
			return &u, nil
		},
	}
	pub := &recordingPublisher{}
	p := NewProvisioner(repo, plainHasher{}, pub, zap.NewNop())

	u, isNew, err := p.EnsureSuperadmin(context.Background(), user.NewUser{
		Name: "Darius", Surname: "Sparta", Email: " Darius@Persia.IR", Password: "xerxes-must-fall",
	})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "darius@persia.ir", created.Email)
	assert.Equal(t, "hashed:xerxes-must-fall", created.PasswordHash)
	assert.Equal(t, user.NewRoleSet(user.RoleSimple, user.RoleSuperadmin), u.Roles)
	assert.NotEqual(t, uuid.Nil, u.UUID)
	assert.Equal(t, []user.EventType{user.EventCreated}, pub.types())
}

func TestProvisioner_PromotesExisting(t *testing.T) {
	existing := newUser(user.RoleSimple, user.RoleAdmin)
	repo := &FakeUserRepository{
		FetchUserByEmailFunc: func(context.Context, string) (*user.User, error) { return existing, nil },
		UpdateUserFunc: func(_ context.Context, id user.UUID, up user.Update) (*user.User, error) {
			assert.Equal(t, existing.UUID, id)
			u := *existing
			u.Roles = *up.Roles
			return &u, nil
		},
	}
	p := NewProvisioner(repo, plainHasher{}, &recordingPublisher{}, zap.NewNop())

	u, isNew, err := p.EnsureSuperadmin(context.Background(), user.NewUser{Email: existing.Email})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, user.NewRoleSet(user.RoleSimple, user.RoleAdmin, user.RoleSuperadmin), u.Roles)
}

func TestProvisioner_AlreadySuperadminIsNoop(t *testing.T) {
	existing := newUser(user.RoleSimple, user.RoleSuperadmin)
	repo := &FakeUserRepository{
		FetchUserByEmailFunc: func(context.Context, string) (*user.User, error) { return existing, nil },
	}
	pub := &recordingPublisher{}
	p := NewProvisioner(repo, plainHasher{}, pub, zap.NewNop())

	u, isNew, err := p.EnsureSuperadmin(context.Background(), user.NewUser{Email: existing.Email})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, existing, u)
	assert.Empty(t, pub.types())
}

func TestProvisioner_NewUserNeedsPassword(t *testing.T) {
	repo := &FakeUserRepository{
		FetchUserByEmailFunc: func(context.Context, string) (*user.User, error) { return nil, nil },
	}
	p := NewProvisioner(repo, plainHasher{}, &recordingPublisher{}, zap.NewNop())

	_, _, err := p.EnsureSuperadmin(context.Background(), user.NewUser{Email: "new@persia.ir"})
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestProvisioner_NewUserNeedsProfile(t *testing.T) {
	repo := &FakeUserRepository{
		FetchUserByEmailFunc: func(context.Context, string) (*user.User, error) { return nil, nil },
		CreateUserFunc: func(context.Context, user.User) (*user.User, error) {
			t.Fatal("must not create a superadmin without a name")
			return nil, nil
		},
	}
	p := NewProvisioner(repo, plainHasher{}, &recordingPublisher{}, zap.NewNop())

	tests := []struct {
		name string
		in   user.NewUser
	}{
		{name: "no name", in: user.NewUser{Surname: "Sparta", Email: "new@persia.ir", Password: "xerxes-must-fall"}},
		{name: "blank surname", in: user.NewUser{Name: "Darius", Surname: "  ", Email: "new@persia.ir", Password: "xerxes-must-fall"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := p.EnsureSuperadmin(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrProfileRequired)
		})
	}
}
