package quota

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/domain/model"
	"github.com/ChaLconner/purrfect-spots-sub001/internal/domain/rules"
	pgrepo "github.com/ChaLconner/purrfect-spots-sub001/internal/repo/postgres"
)

// failClosedCount is returned when the per-user rolling count cannot be read.
// It exceeds any configurable tier limit, so an unreadable count denies.
const failClosedCount = 1 << 30

const resetTypeRolling = "24h rolling"

const incrementTimeout = 5 * time.Second

var ErrValidation = errors.New("validation error")

type PhotoCountStore interface {
	CountRecentByUser(ctx context.Context, userID int64, since time.Time) (int, error)
}

type SystemCounterStore interface {
	UploadsTotal(ctx context.Context, dayKey string) (int, error)
	IncrementUploads(ctx context.Context, dayKey string, delta int) (int, error)
}

type MetricsStore interface {
	Increment(ctx context.Context, userID int64, at time.Time, delta pgrepo.DailyMetricsDelta) error
}

type Config struct {
	FreeUploadsPerDay   int
	ProUploadsPerDay    int
	GlobalUploadsPerDay int
}

// Service enforces upload admission against live store queries. No counts are
// cached locally, so multiple instances stay consistent up to the documented
// check-then-write race.
type Service struct {
	photos  PhotoCountStore
	system  SystemCounterStore
	metrics MetricsStore
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(photos PhotoCountStore, system SystemCounterStore, cfg Config, logger *zap.Logger) *Service {
	if cfg.FreeUploadsPerDay <= 0 {
		cfg.FreeUploadsPerDay = rules.FreeUploadsPerDay
	}
	if cfg.ProUploadsPerDay <= 0 {
		cfg.ProUploadsPerDay = rules.ProUploadsPerDay
	}
	if cfg.GlobalUploadsPerDay <= 0 {
		cfg.GlobalUploadsPerDay = rules.GlobalUploadsPerDay
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		photos: photos,
		system: system,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) AttachMetrics(metrics MetricsStore) {
	s.metrics = metrics
}

// RecentUploadCount returns the user's non-deleted uploads inside the
// trailing 24h window. A store failure counts as exhausted.
func (s *Service) RecentUploadCount(ctx context.Context, userID int64) int {
	if userID <= 0 || s.photos == nil {
		return failClosedCount
	}

	count, err := s.photos.CountRecentByUser(ctx, userID, rules.WindowStart(s.now()))
	if err != nil {
		s.logger.Warn("recent upload count failed, failing closed",
			zap.Error(err), zap.Int64("user_id", userID))
		return failClosedCount
	}

	return count
}

// CheckQuota reports whether the user may upload. The system-wide daily cap
// is checked first and takes precedence over the per-user window. A failed
// system-count read falls through to the per-user check instead of denying
// every upload platform-wide; a failed per-user read denies.
func (s *Service) CheckQuota(ctx context.Context, userID int64, isPro bool) bool {
	if userID <= 0 {
		return false
	}

	if s.system != nil {
		dayKey := rules.DayKey(s.now().UTC(), time.UTC)
		total, err := s.system.UploadsTotal(ctx, dayKey)
		if err != nil {
			s.logger.Error("system upload total read failed, failing open",
				zap.Error(err), zap.String("day_key", dayKey))
		} else if total >= s.cfg.GlobalUploadsPerDay {
			s.logger.Warn("system-wide upload limit reached",
				zap.Int("total", total), zap.Int("limit", s.cfg.GlobalUploadsPerDay))
			return false
		}
	}

	return s.RecentUploadCount(ctx, userID) < s.tierLimit(isPro)
}

// CheckAndIncrement admits like CheckQuota and, when admitted, bumps the
// system-wide counter and the analytics metrics asynchronously. Both are for
// dashboards and the coarse global cap only; the rolling count query remains
// the sole per-user enforcement source, so a failed increment never
// un-admits the request.
func (s *Service) CheckAndIncrement(ctx context.Context, userID int64, isPro bool) bool {
	if !s.CheckQuota(ctx, userID, isPro) {
		return false
	}

	now := s.now().UTC()
	go s.recordUpload(userID, now)

	return true
}

// Status is a read-only projection for clients. Store failures produce a
// zeroed, degraded status rather than an error.
func (s *Service) Status(ctx context.Context, userID int64, isPro bool) model.QuotaStatus {
	limit := s.tierLimit(isPro)
	status := model.QuotaStatus{
		Limit:     limit,
		IsPro:     isPro,
		ResetType: resetTypeRolling,
	}

	if userID <= 0 || s.photos == nil {
		status.Degraded = true
		return status
	}

	used, err := s.photos.CountRecentByUser(ctx, userID, rules.WindowStart(s.now()))
	if err != nil {
		s.logger.Warn("quota status read failed",
			zap.Error(err), zap.Int64("user_id", userID))
		status.Degraded = true
		return status
	}

	status.Used = used
	status.Remaining = limit - used
	if status.Remaining < 0 {
		status.Remaining = 0
	}

	return status
}

func (s *Service) recordUpload(userID int64, at time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), incrementTimeout)
	defer cancel()

	if s.system != nil {
		dayKey := rules.DayKey(at, time.UTC)
		if _, err := s.system.IncrementUploads(ctx, dayKey, 1); err != nil {
			s.logger.Warn("system upload counter increment failed",
				zap.Error(err), zap.String("day_key", dayKey))
		}
	}

	if s.metrics != nil {
		if err := s.metrics.Increment(ctx, userID, at, pgrepo.DailyMetricsDelta{Uploads: 1}); err != nil {
			s.logger.Warn("daily metrics increment failed",
				zap.Error(err), zap.Int64("user_id", userID))
		}
	}
}

func (s *Service) tierLimit(isPro bool) int {
	if isPro {
		return s.cfg.ProUploadsPerDay
	}
	return s.cfg.FreeUploadsPerDay
}
