package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/domain/model"
)

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

func (r *NotificationRepo) Create(ctx context.Context, n model.Notification) error {
	if n.UserID <= 0 || n.Kind == "" {
		return fmt.Errorf("invalid notification payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO notifications (user_id, kind, actor_id, actor_name, photo_id, treat_amount, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
`, n.UserID, n.Kind, n.ActorID, n.ActorName, n.PhotoID, n.TreatAmount)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (r *NotificationRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if r.pool == nil {
		return []model.Notification{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, kind, actor_id, actor_name, photo_id, treat_amount, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.ActorID, &n.ActorName, &n.PhotoID, &n.TreatAmount, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		items = append(items, n)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", rows.Err())
	}

	return items, nil
}

func (r *NotificationRepo) DeleteForPhoto(ctx context.Context, photoID int64) error {
	if photoID <= 0 {
		return fmt.Errorf("invalid photo id")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE photo_id = $1`, photoID); err != nil {
		return fmt.Errorf("delete notifications for photo: %w", err)
	}

	return nil
}
