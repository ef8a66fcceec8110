package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/domain/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) UpsertByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return model.User{}, fmt.Errorf("username is required")
	}
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	var user model.User
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (username, display_name, created_at)
VALUES ($1, $1, NOW())
ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
RETURNING id, username, display_name, is_pro, treat_balance, created_at
`, username).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.IsPro,
		&user.TreatBalance,
		&user.CreatedAt,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("upsert user: %w", err)
	}

	return user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	var user model.User
	err := r.pool.QueryRow(ctx, `
SELECT id, username, display_name, is_pro, treat_balance, created_at
FROM users
WHERE id = $1
LIMIT 1
`, userID).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.IsPro,
		&user.TreatBalance,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("find user: %w", err)
	}

	return user, nil
}

func (r *UserRepo) DisplayName(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return "", fmt.Errorf("postgres pool is nil")
	}

	var name string
	err := r.pool.QueryRow(ctx, `
SELECT display_name
FROM users
WHERE id = $1
LIMIT 1
`, userID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("get display name: %w", err)
	}

	return name, nil
}

func (r *UserRepo) IsPro(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var isPro bool
	err := r.pool.QueryRow(ctx, `
SELECT is_pro
FROM users
WHERE id = $1
LIMIT 1
`, userID).Scan(&isPro)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("get pro flag: %w", err)
	}

	return isPro, nil
}
