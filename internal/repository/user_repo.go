package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"login-signup/internal/domain"
)

// ErrEmailTaken se devuelve cuando el insert viola la unicidad de email.
var ErrEmailTaken = errors.New("email already registered")

const uniqueViolation = "23505"

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateProfile(ctx context.Context, id string, name, avatar *string) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, password, name, avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Password,
		user.Name,
		user.Avatar,
		user.CreatedAt,
		user.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT id, email, password, name, avatar, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// UpdateProfile refresca nombre y avatar con los datos del proveedor OAuth.
func (r *PgUserRepository) UpdateProfile(ctx context.Context, id string, name, avatar *string) error {
	const query = `
		UPDATE users
		SET name = $2, avatar = $3, updated_at = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, name, avatar, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Password,
		&u.Name,
		&u.Avatar,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
