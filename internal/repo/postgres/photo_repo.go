package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/domain/model"
)

var ErrPhotoNotFound = errors.New("photo not found")

type PhotoRepo struct {
	pool *pgxpool.Pool
}

func NewPhotoRepo(pool *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{pool: pool}
}

func (r *PhotoRepo) Create(ctx context.Context, userID int64, objectKey, caption string) (model.Photo, error) {
	if userID <= 0 || strings.TrimSpace(objectKey) == "" {
		return model.Photo{}, fmt.Errorf("invalid photo payload")
	}
	if r.pool == nil {
		return model.Photo{}, fmt.Errorf("postgres pool is nil")
	}

	var photo model.Photo
	err := r.pool.QueryRow(ctx, `
INSERT INTO photos (user_id, object_key, caption, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, user_id, object_key, caption, created_at
`, userID, objectKey, strings.TrimSpace(caption)).Scan(
		&photo.ID,
		&photo.UserID,
		&photo.ObjectKey,
		&photo.Caption,
		&photo.CreatedAt,
	)
	if err != nil {
		return model.Photo{}, fmt.Errorf("insert photo: %w", err)
	}

	return photo, nil
}

// CountRecentByUser counts the user's non-deleted photos created after since.
func (r *PhotoRepo) CountRecentByUser(ctx context.Context, userID int64, since time.Time) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM photos
WHERE user_id = $1
  AND created_at > $2
  AND deleted_at IS NULL
`, userID, since.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count recent photos: %w", err)
	}

	return count, nil
}

func (r *PhotoRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]model.Photo, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if r.pool == nil {
		return []model.Photo{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, object_key, caption, created_at
FROM photos
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	items := make([]model.Photo, 0)
	for rows.Next() {
		var photo model.Photo
		if err := rows.Scan(&photo.ID, &photo.UserID, &photo.ObjectKey, &photo.Caption, &photo.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan photo row: %w", err)
		}
		items = append(items, photo)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate photo rows: %w", rows.Err())
	}

	return items, nil
}

func (r *PhotoRepo) OwnerID(ctx context.Context, photoID int64) (int64, error) {
	if photoID <= 0 {
		return 0, fmt.Errorf("invalid photo id")
	}
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var ownerID int64
	err := r.pool.QueryRow(ctx, `
SELECT user_id
FROM photos
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1
`, photoID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPhotoNotFound
		}
		return 0, fmt.Errorf("get photo owner: %w", err)
	}

	return ownerID, nil
}

func (r *PhotoRepo) SoftDelete(ctx context.Context, userID, photoID int64) error {
	if userID <= 0 || photoID <= 0 {
		return fmt.Errorf("invalid photo delete payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE photos
SET deleted_at = NOW()
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
`, photoID, userID)
	if err != nil {
		return fmt.Errorf("soft delete photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPhotoNotFound
	}

	return nil
}

// ListDeletedBefore returns soft-deleted photos whose deletion is older than
// cutoff, oldest first. Used by the cleanup job before hard-deleting rows.
func (r *PhotoRepo) ListDeletedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.Photo, error) {
	if cutoff.IsZero() {
		return nil, fmt.Errorf("cutoff is required")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []model.Photo{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, object_key, caption, created_at, deleted_at
FROM photos
WHERE deleted_at IS NOT NULL AND deleted_at < $1
ORDER BY deleted_at ASC
LIMIT $2
`, cutoff.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list deleted photos: %w", err)
	}
	defer rows.Close()

	items := make([]model.Photo, 0)
	for rows.Next() {
		var photo model.Photo
		if err := rows.Scan(&photo.ID, &photo.UserID, &photo.ObjectKey, &photo.Caption, &photo.CreatedAt, &photo.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan deleted photo row: %w", err)
		}
		items = append(items, photo)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate deleted photo rows: %w", rows.Err())
	}

	return items, nil
}

func (r *PhotoRepo) DeleteRow(ctx context.Context, photoID int64) error {
	if photoID <= 0 {
		return fmt.Errorf("invalid photo id")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, photoID); err != nil {
		return fmt.Errorf("delete photo row: %w", err)
	}

	return nil
}
