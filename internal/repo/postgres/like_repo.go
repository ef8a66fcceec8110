package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LikeRepo struct {
	pool *pgxpool.Pool
}

func NewLikeRepo(pool *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{pool: pool}
}

// Create inserts a like and reports whether a new row was created. Repeated
// likes from the same user are no-ops.
func (r *LikeRepo) Create(ctx context.Context, userID, photoID int64) (bool, error) {
	if userID <= 0 || photoID <= 0 {
		return false, fmt.Errorf("invalid like payload")
	}
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
INSERT INTO likes (user_id, photo_id, created_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_id, photo_id) DO NOTHING
`, userID, photoID)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *LikeRepo) Delete(ctx context.Context, userID, photoID int64) (bool, error) {
	if userID <= 0 || photoID <= 0 {
		return false, fmt.Errorf("invalid unlike payload")
	}
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
DELETE FROM likes
WHERE user_id = $1 AND photo_id = $2
`, userID, photoID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *LikeRepo) CountForPhoto(ctx context.Context, photoID int64) (int, error) {
	if photoID <= 0 {
		return 0, fmt.Errorf("invalid photo id")
	}
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM likes
WHERE photo_id = $1
`, photoID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return count, nil
}
