package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecodeli/ecodeli-api/internal/domain"
)

var (
	// ErrDuplicateEmail is returned when an account already uses the email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDatabaseNotConfigured is returned by every method when no pool was given.
	ErrDatabaseNotConfigured = errors.New("database not configured")
)

const uniqueViolation = "23505"

// UserRepository defines persistence access for marketplace accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation. A nil pool
// yields a repository that fails with ErrDatabaseNotConfigured.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, email, mot_de_passe, nom, prenom, telephone, role, actif, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if r.pool == nil {
		return ErrDatabaseNotConfigured
	}
	const query = `
        INSERT INTO utilisateurs (email, mot_de_passe, nom, prenom, telephone, role, actif)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.LastName,
		user.FirstName,
		user.Phone,
		user.Type,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapWriteError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if r.pool == nil {
		return nil, ErrDatabaseNotConfigured
	}
	query := `SELECT ` + userColumns + ` FROM utilisateurs WHERE id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.pool == nil {
		return nil, ErrDatabaseNotConfigured
	}
	query := `SELECT ` + userColumns + ` FROM utilisateurs WHERE lower(email)=lower($1)`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.LastName,
		&user.FirstName,
		&user.Phone,
		&user.Type,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}
