package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/domain/model"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrQuotaExceeded    = errors.New("upload quota exceeded")
	ErrRateLimited      = errors.New("too fast")
	ErrDependenciesNil  = errors.New("photos dependencies are not configured")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

const (
	signedURLTTL   = 5 * time.Minute
	maxCaptionSize = 500
)

type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type Store interface {
	Create(ctx context.Context, userID int64, objectKey, caption string) (model.Photo, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.Photo, error)
	SoftDelete(ctx context.Context, userID, photoID int64) error
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type AdmissionService interface {
	CheckAndIncrement(ctx context.Context, userID int64, isPro bool) bool
}

type ProStore interface {
	IsPro(ctx context.Context, userID int64) (bool, error)
}

type Limiter interface {
	Allow(key string) bool
	RetryAfter(key string) int64
}

type Photo struct {
	ID        int64
	URL       string
	Caption   string
	CreatedAt time.Time
}

type Service struct {
	store   Store
	storage ObjectStorage
	quota   AdmissionService
	pro     ProStore
	limiter Limiter
	logger  *zap.Logger
}

func NewService(store Store, storage ObjectStorage, quota AdmissionService, pro ProStore, limiter Limiter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:   store,
		storage: storage,
		quota:   quota,
		pro:     pro,
		limiter: limiter,
		logger:  logger,
	}
}

// Upload admits through the process-local limiter first (cheap, no I/O),
// then the store-backed quota, then writes the object and the row. A failed
// row insert compensates by deleting the uploaded object.
func (s *Service) Upload(ctx context.Context, userID int64, fileName, contentType string, body io.Reader, size int64, caption string) (Photo, error) {
	if userID <= 0 || body == nil || size <= 0 {
		return Photo{}, ErrValidation
	}
	if len(caption) > maxCaptionSize {
		return Photo{}, ErrValidation
	}
	if s.store == nil || s.storage == nil || s.quota == nil {
		return Photo{}, ErrDependenciesNil
	}

	if s.limiter != nil {
		key := uploadKey(userID)
		if !s.limiter.Allow(key) {
			return Photo{}, TooFastError{RetryAfterSec: s.limiter.RetryAfter(key)}
		}
	}

	isPro := false
	if s.pro != nil {
		pro, err := s.pro.IsPro(ctx, userID)
		if err != nil {
			s.logger.Warn("pro tier lookup failed, treating as free",
				zap.Error(err), zap.Int64("user_id", userID))
		} else {
			isPro = pro
		}
	}

	if !s.quota.CheckAndIncrement(ctx, userID, isPro) {
		return Photo{}, ErrQuotaExceeded
	}

	objectKey, err := buildObjectKey(userID, fileName)
	if err != nil {
		return Photo{}, err
	}

	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return Photo{}, fmt.Errorf("ensure bucket: %w", err)
	}
	if err := s.storage.PutObject(ctx, objectKey, body, size, contentType); err != nil {
		return Photo{}, fmt.Errorf("put object: %w", err)
	}

	record, err := s.store.Create(ctx, userID, objectKey, caption)
	if err != nil {
		if deleteErr := s.storage.Delete(ctx, objectKey); deleteErr != nil {
			s.logger.Warn("compensating object delete failed",
				zap.Error(deleteErr), zap.String("object_key", objectKey))
		}
		return Photo{}, fmt.Errorf("create photo record: %w", err)
	}

	url, err := s.storage.PresignGet(ctx, record.ObjectKey, signedURLTTL)
	if err != nil {
		return Photo{}, fmt.Errorf("presign photo url: %w", err)
	}

	return Photo{
		ID:        record.ID,
		URL:       url,
		Caption:   record.Caption,
		CreatedAt: record.CreatedAt,
	}, nil
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]Photo, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil || s.storage == nil {
		return nil, ErrDependenciesNil
	}

	records, err := s.store.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list photo records: %w", err)
	}

	photos := make([]Photo, 0, len(records))
	for _, record := range records {
		url, err := s.storage.PresignGet(ctx, record.ObjectKey, signedURLTTL)
		if err != nil {
			return nil, fmt.Errorf("presign photo url: %w", err)
		}
		photos = append(photos, Photo{
			ID:        record.ID,
			URL:       url,
			Caption:   record.Caption,
			CreatedAt: record.CreatedAt,
		})
	}

	return photos, nil
}

// Delete soft-deletes; the cleanup job hard-deletes rows and objects later.
func (s *Service) Delete(ctx context.Context, userID, photoID int64) error {
	if userID <= 0 || photoID <= 0 {
		return ErrValidation
	}
	if s.store == nil {
		return ErrDependenciesNil
	}

	return s.store.SoftDelete(ctx, userID, photoID)
}

func uploadKey(userID int64) string {
	return "upload:" + strconv.FormatInt(userID, 10)
}

func buildObjectKey(userID int64, fileName string) (string, error) {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	case "":
		ext = ".jpg"
	default:
		return "", ErrUnsupportedMedia
	}

	return fmt.Sprintf("photos/%d/%s%s", userID, uuid.NewString(), ext), nil
}
