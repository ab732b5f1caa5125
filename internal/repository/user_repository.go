package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samueladole/crovio/internal/domain"
)

// ErrDuplicate is returned when a unique column (email, phone, username)
// already holds the value.
var ErrDuplicate = errors.New("duplicate value")

const uniqueViolation = "23505"

// UserRepository defines persistence access for accounts. It also serves the
// credential and role lookups of the auth package.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindByIdentifier(ctx context.Context, id domain.Identifier) (*domain.Credential, error)
	RoleOf(ctx context.Context, subject domain.Subject) (domain.Role, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, email, phone, username, first_name, last_name, location,
            password_hash, role, accept_terms, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, phone, username, first_name, last_name, location, password_hash, role, accept_terms)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Email,
		user.Phone,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Location,
		user.PasswordHash,
		user.Role,
		user.AcceptTerms,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return translateError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone=$1`, phone)
}

// FindByIdentifier returns (nil, nil) when no account matches so the caller
// can treat unknown identifiers and wrong passwords the same way.
func (r *userRepository) FindByIdentifier(ctx context.Context, id domain.Identifier) (*domain.Credential, error) {
	var (
		user *domain.User
		err  error
	)
	switch {
	case id.Email != "":
		user, err = r.GetByEmail(ctx, id.Email)
	case id.Phone != "":
		user, err = r.GetByPhone(ctx, id.Phone)
	default:
		return nil, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Credential{Subject: user.Subject(), PasswordHash: user.PasswordHash}, nil
}

func (r *userRepository) RoleOf(ctx context.Context, subject domain.Subject) (domain.Role, error) {
	const query = `SELECT role FROM users WHERE id=$1`

	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, string(subject)).Scan(&role); err != nil {
		return "", fmt.Errorf("role of %s: %w", subject, err)
	}
	return role, nil
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Phone,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Location,
		&user.PasswordHash,
		&user.Role,
		&user.AcceptTerms,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
