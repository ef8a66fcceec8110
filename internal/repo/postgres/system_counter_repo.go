package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SystemCounterRepo tracks platform-wide daily totals keyed by calendar date.
type SystemCounterRepo struct {
	pool *pgxpool.Pool
}

func NewSystemCounterRepo(pool *pgxpool.Pool) *SystemCounterRepo {
	return &SystemCounterRepo{pool: pool}
}

func (r *SystemCounterRepo) UploadsTotal(ctx context.Context, dayKey string) (int, error) {
	if strings.TrimSpace(dayKey) == "" {
		return 0, fmt.Errorf("day key is required")
	}
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var total int
	err := r.pool.QueryRow(ctx, `
SELECT uploads_total
FROM system_daily_counters
WHERE day_key = $1::date
LIMIT 1
`, dayKey).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get system uploads total: %w", err)
	}

	return total, nil
}

func (r *SystemCounterRepo) IncrementUploads(ctx context.Context, dayKey string, delta int) (int, error) {
	if strings.TrimSpace(dayKey) == "" {
		return 0, fmt.Errorf("day key is required")
	}
	if delta <= 0 {
		delta = 1
	}
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var total int
	err := r.pool.QueryRow(ctx, `
INSERT INTO system_daily_counters (day_key, uploads_total, updated_at)
VALUES ($1::date, $2, NOW())
ON CONFLICT (day_key) DO UPDATE SET
	uploads_total = system_daily_counters.uploads_total + EXCLUDED.uploads_total,
	updated_at = NOW()
RETURNING uploads_total
`, dayKey, delta).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("increment system uploads total: %w", err)
	}

	return total, nil
}
