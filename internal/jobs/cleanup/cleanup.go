package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/domain/model"
)

const (
	defaultRetention = 30 * 24 * time.Hour
	defaultBatchSize = 200
)

type PhotoPurgeStore interface {
	ListDeletedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.Photo, error)
	DeleteRow(ctx context.Context, photoID int64) error
}

type NotificationPurgeStore interface {
	DeleteForPhoto(ctx context.Context, photoID int64) error
}

type ObjectStorage interface {
	Delete(ctx context.Context, key string) error
}

type windowSweeper interface {
	Cleanup()
}

// Job hard-deletes soft-deleted photos past retention: the S3 object first
// (best effort), then notifications and the row. It also sweeps idle
// rate-limiter windows so one-off keys do not accumulate.
type Job struct {
	photos        PhotoPurgeStore
	notifications NotificationPurgeStore
	storage       ObjectStorage
	sweepers      []windowSweeper
	retention     time.Duration
	batchSize     int
	now           func() time.Time
	logger        *zap.Logger
}

func New(photos PhotoPurgeStore, notifications NotificationPurgeStore, storage ObjectStorage, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = defaultRetention
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		photos:        photos,
		notifications: notifications,
		storage:       storage,
		retention:     retention,
		batchSize:     defaultBatchSize,
		now:           time.Now,
		logger:        logger,
	}
}

func (j *Job) AttachWindowSweep(sweepers ...windowSweeper) {
	j.sweepers = append(j.sweepers, sweepers...)
}

func (j *Job) Run(ctx context.Context) error {
	for _, sweeper := range j.sweepers {
		sweeper.Cleanup()
	}

	if j.photos == nil {
		return nil
	}

	cutoff := j.now().UTC().Add(-j.retention)
	stale, err := j.photos.ListDeletedBefore(ctx, cutoff, j.batchSize)
	if err != nil {
		return fmt.Errorf("list stale deleted photos: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	for _, photo := range stale {
		if j.storage != nil {
			if err := j.storage.Delete(ctx, photo.ObjectKey); err != nil {
				j.logger.Warn("failed to delete photo object from storage",
					zap.Error(err), zap.String("object_key", photo.ObjectKey))
			}
		}
		if j.notifications != nil {
			if err := j.notifications.DeleteForPhoto(ctx, photo.ID); err != nil {
				return fmt.Errorf("delete notifications for photo: %w", err)
			}
		}
		if err := j.photos.DeleteRow(ctx, photo.ID); err != nil {
			return fmt.Errorf("delete stale photo row: %w", err)
		}
	}

	j.logger.Info("cleanup stale photos completed", zap.Int("purged", len(stale)))
	return nil
}
