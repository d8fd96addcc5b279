package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"identity-api/internal/domain/user"
	"identity-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchUserByID(ctx context.Context, id user.UUID) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByID, id)
}

func (r *Repository) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByEmail, email)
}

func (r *Repository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	id := req.UUID
	if id == uuid.Nil {
		id = uuid.New()
	}

	u, err := scanUser(r.db.QueryRow(
		ctx,
		InsertUser,
		id, req.Name, req.Surname, req.Email, req.PasswordHash, req.Roles.Strings(),
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, user.ErrEmailAlreadyExists
		}
		return nil, err
	}

	return fromDBModel(u)
}

// UpdateUser applies the non-nil fields of req to an active row in one statement.
func (r *Repository) UpdateUser(ctx context.Context, id user.UUID, req user.Update) (*user.User, error) {
	if req.IsEmpty() {
		return nil, user.ErrEmptyUpdate
	}

	query, args := buildUpdate(id, req)
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, user.ErrEmailAlreadyExists
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u)
}

func (r *Repository) DeleteUser(ctx context.Context, id user.UUID) (*user.User, error) {
	return r.fetchOne(ctx, SoftDeleteUserByID, id)
}

func (r *Repository) fetchOne(ctx context.Context, query string, arg any) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u)
}

func buildUpdate(id user.UUID, req user.Update) (string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Surname != nil {
		add("surname", *req.Surname)
	}
	if req.Email != nil {
		add("email", *req.Email)
	}
	if req.Roles != nil {
		add("roles", req.Roles.Strings())
	}
	args = append(args, id)

	var b strings.Builder
	b.WriteString(updateUserPrefix)
	for _, s := range sets {
		b.WriteString(s)
		b.WriteString(", ")
	}
	b.WriteString(fmt.Sprintf(updateUserSuffix, len(args)))

	return b.String(), args
}

func scanUser(row pgx.Row) (*User, error) {
	u := new(User)
	err := row.Scan(
		&u.UserID,
		&u.Name,
		&u.Surname,
		&u.Email,
		&u.PasswordHash,
		&u.IsActive,
		&u.Roles,

		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return u, nil
}
