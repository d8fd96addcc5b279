package user

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "identity-api/internal/domain/user"
)

var columns = []string{
	"user_id", "name", "surname", "email", "password_hash", "is_active", "roles", "created_at", "updated_at",
}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, &Repository{db: mock}
}

func userRow(id uuid.UUID, email string, active bool, roles []string) *pgxmock.Rows {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return pgxmock.NewRows(columns).
		AddRow(id, "Sigurd", "Styrbjornsson", email, "$2a$10$hash", active, roles, now, now)
}

func TestRepository_FetchUserByID(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		setup   func(m pgxmock.PgxPoolIface)
		wantNil bool
		wantErr string
		check   func(t *testing.T, u *domain.User)
	}{
		{
			name: "found",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(regexp.QuoteMeta("FROM users WHERE user_id = $1 AND is_active = true")).
					WithArgs(id).
					WillReturnRows(userRow(id, "sigurd@raven.clan", true, []string{"ROLE_USER_SIMPLE", "ROLE_USER_ADMIN"}))
			},
			check: func(t *testing.T, u *domain.User) {
				assert.Equal(t, id, u.UUID)
				assert.Equal(t, "sigurd@raven.clan", u.Email)
				assert.True(t, u.IsActive)
				assert.Equal(t, domain.NewRoleSet(domain.RoleSimple, domain.RoleAdmin), u.Roles)
			},
		},
		{
			name: "inactive or absent row is nil, nil",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(regexp.QuoteMeta("FROM users WHERE user_id = $1")).
					WithArgs(id).
					WillReturnError(pgx.ErrNoRows)
			},
			wantNil: true,
		},
		{
			name: "db error",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(regexp.QuoteMeta("FROM users WHERE user_id = $1")).
					WithArgs(id).
					WillReturnError(errors.New("conn reset"))
			},
			wantNil: true,
			wantErr: "conn reset",
		},
		{
			name: "unknown stored role",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(regexp.QuoteMeta("FROM users WHERE user_id = $1")).
					WithArgs(id).
					WillReturnRows(userRow(id, "sigurd@raven.clan", true, []string{"ROLE_ROOT"}))
			},
			wantNil: true,
			wantErr: "unknown role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMock(t)
			tt.setup(mock)

			u, err := repo.FetchUserByID(context.Background(), id)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, u)
			} else {
				require.NotNil(t, u)
				tt.check(t, u)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FetchUserByEmail(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1 AND is_active = true")).
		WithArgs("hytham@hidden.ones").
		WillReturnRows(userRow(id, "hytham@hidden.ones", true, []string{"ROLE_USER_SIMPLE"}))

	u, err := repo.FetchUserByEmail(context.Background(), "hytham@hidden.ones")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.UUID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateUser(t *testing.T) {
	id := uuid.New()
	req := domain.User{
		UUID:         id,
		Name:         "Sigurd",
		Surname:      "Styrbjornsson",
		Email:        "sigurd@raven.clan",
		PasswordHash: "$2a$10$hash",
		Roles:        domain.NewRoleSet(domain.RoleSimple),
	}

	t.Run("created", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(id, req.Name, req.Surname, req.Email, req.PasswordHash, []string{"ROLE_USER_SIMPLE"}).
			WillReturnRows(userRow(id, req.Email, true, []string{"ROLE_USER_SIMPLE"}))

		u, err := repo.CreateUser(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, id, u.UUID)
		assert.True(t, u.IsActive)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("generates id when missing", func(t *testing.T) {
		mock, repo := newMock(t)
		noID := req
		noID.UUID = uuid.Nil
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), req.Name, req.Surname, req.Email, req.PasswordHash, []string{"ROLE_USER_SIMPLE"}).
			WillReturnRows(userRow(id, req.Email, true, []string{"ROLE_USER_SIMPLE"}))

		_, err := repo.CreateUser(context.Background(), noID)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(id, req.Name, req.Surname, req.Email, req.PasswordHash, []string{"ROLE_USER_SIMPLE"}).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		u, err := repo.CreateUser(context.Background(), req)
		assert.Nil(t, u)
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UpdateUser(t *testing.T) {
	id := uuid.New()
	name := "Basim"
	email := "basim@hidden.ones"
	roles := domain.NewRoleSet(domain.RoleSimple, domain.RoleAdmin)

	t.Run("partial profile", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET name = $1, email = $2, updated_at = now() WHERE user_id = $3 AND is_active = true")).
			WithArgs(name, email, id).
			WillReturnRows(userRow(id, email, true, []string{"ROLE_USER_SIMPLE"}))

		u, err := repo.UpdateUser(context.Background(), id, domain.Update{Name: &name, Email: &email})
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, email, u.Email)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("roles only", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET roles = $1, updated_at = now() WHERE user_id = $2")).
			WithArgs([]string{"ROLE_USER_SIMPLE", "ROLE_USER_ADMIN"}, id).
			WillReturnRows(userRow(id, email, true, []string{"ROLE_USER_SIMPLE", "ROLE_USER_ADMIN"}))

		u, err := repo.UpdateUser(context.Background(), id, domain.Update{Roles: &roles})
		require.NoError(t, err)
		assert.Equal(t, roles, u.Roles)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no active row", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET name = $1")).
			WithArgs(name, id).
			WillReturnError(pgx.ErrNoRows)

		u, err := repo.UpdateUser(context.Background(), id, domain.Update{Name: &name})
		require.NoError(t, err)
		assert.Nil(t, u)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET email = $1")).
			WithArgs(email, id).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.UpdateUser(context.Background(), id, domain.Update{Email: &email})
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty update never reaches the db", func(t *testing.T) {
		mock, repo := newMock(t)

		_, err := repo.UpdateUser(context.Background(), id, domain.Update{})
		assert.ErrorIs(t, err, domain.ErrEmptyUpdate)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_DeleteUser(t *testing.T) {
	id := uuid.New()

	t.Run("soft deleted", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("SET is_active = false, updated_at = now() WHERE user_id = $1 AND is_active = true")).
			WithArgs(id).
			WillReturnRows(userRow(id, "eivor@raven.clan", false, []string{"ROLE_USER_SIMPLE"}))

		u, err := repo.DeleteUser(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.False(t, u.IsActive)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already inactive", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("SET is_active = false")).
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)

		u, err := repo.DeleteUser(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, u)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBuildUpdate_ArgumentOrder(t *testing.T) {
	id := uuid.New()
	name, surname, email := "Ivar", "Ragnarsson", "ivar@raven.clan"

	query, args := buildUpdate(id, domain.Update{Name: &name, Surname: &surname, Email: &email})

	assert.Contains(t, query, "name = $1, surname = $2, email = $3, updated_at = now() WHERE user_id = $4")
	assert.Equal(t, []any{name, surname, email, id}, args)
}
