package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DailyMetricsRepo feeds the legacy analytics dashboards. Writes here are
// best-effort; enforcement never reads these rows.
type DailyMetricsRepo struct {
	pool *pgxpool.Pool
}

type DailyMetricsDelta struct {
	Uploads     int
	Likes       int
	TreatsGiven int
}

func NewDailyMetricsRepo(pool *pgxpool.Pool) *DailyMetricsRepo {
	return &DailyMetricsRepo{pool: pool}
}

func (r *DailyMetricsRepo) Increment(ctx context.Context, userID int64, at time.Time, delta DailyMetricsDelta) error {
	if r.pool == nil {
		return nil
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if delta.isZero() {
		return nil
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO daily_metrics (day_key, tier, uploads, likes, treats_given, updated_at)
SELECT
	$2::date,
	CASE WHEN u.is_pro THEN 'pro' ELSE 'free' END,
	$3::int,
	$4::int,
	$5::int,
	NOW()
FROM users u
WHERE u.id = $1
UNION ALL
SELECT $2::date, 'unknown', $3::int, $4::int, $5::int, NOW()
WHERE NOT EXISTS (SELECT 1 FROM users u WHERE u.id = $1)
ON CONFLICT (day_key, tier) DO UPDATE SET
	uploads = daily_metrics.uploads + EXCLUDED.uploads,
	likes = daily_metrics.likes + EXCLUDED.likes,
	treats_given = daily_metrics.treats_given + EXCLUDED.treats_given,
	updated_at = NOW()
`,
		userID,
		at.UTC().Format("2006-01-02"),
		delta.Uploads,
		delta.Likes,
		delta.TreatsGiven,
	)
	if err != nil {
		return fmt.Errorf("increment daily metrics: %w", err)
	}

	return nil
}

func (d DailyMetricsDelta) isZero() bool {
	return d.Uploads == 0 && d.Likes == 0 && d.TreatsGiven == 0
}
