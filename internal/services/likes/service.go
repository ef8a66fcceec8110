package likes

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/domain/model"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrDependenciesNil = errors.New("likes dependencies are not configured")
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

type LikeStore interface {
	Create(ctx context.Context, userID, photoID int64) (bool, error)
	Delete(ctx context.Context, userID, photoID int64) (bool, error)
	CountForPhoto(ctx context.Context, photoID int64) (int, error)
}

type PhotoStore interface {
	OwnerID(ctx context.Context, photoID int64) (int64, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n model.Notification) error
}

type Limiter interface {
	Allow(key string) bool
	RetryAfter(key string) int64
}

type Result struct {
	Liked     bool
	LikeCount int
}

type Service struct {
	likes         LikeStore
	photos        PhotoStore
	notifications NotificationStore
	limiter       Limiter
	logger        *zap.Logger
}

func NewService(likes LikeStore, photos PhotoStore, notifications NotificationStore, limiter Limiter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		likes:         likes,
		photos:        photos,
		notifications: notifications,
		limiter:       limiter,
		logger:        logger,
	}
}

// Like is idempotent: repeated likes keep the row and skip the notification.
func (s *Service) Like(ctx context.Context, userID, photoID int64) (Result, error) {
	if userID <= 0 || photoID <= 0 {
		return Result{}, ErrValidation
	}
	if s.likes == nil {
		return Result{}, ErrDependenciesNil
	}

	if s.limiter != nil {
		key := likeKey(userID)
		if !s.limiter.Allow(key) {
			return Result{}, TooFastError{RetryAfterSec: s.limiter.RetryAfter(key)}
		}
	}

	created, err := s.likes.Create(ctx, userID, photoID)
	if err != nil {
		return Result{}, fmt.Errorf("create like: %w", err)
	}

	if created {
		s.notifyOwner(ctx, userID, photoID)
	}

	count, err := s.likes.CountForPhoto(ctx, photoID)
	if err != nil {
		return Result{}, fmt.Errorf("count likes: %w", err)
	}

	return Result{Liked: true, LikeCount: count}, nil
}

func (s *Service) Unlike(ctx context.Context, userID, photoID int64) (Result, error) {
	if userID <= 0 || photoID <= 0 {
		return Result{}, ErrValidation
	}
	if s.likes == nil {
		return Result{}, ErrDependenciesNil
	}

	if _, err := s.likes.Delete(ctx, userID, photoID); err != nil {
		return Result{}, fmt.Errorf("delete like: %w", err)
	}

	count, err := s.likes.CountForPhoto(ctx, photoID)
	if err != nil {
		return Result{}, fmt.Errorf("count likes: %w", err)
	}

	return Result{Liked: false, LikeCount: count}, nil
}

// notifyOwner is best-effort: a lost like notification is acceptable.
func (s *Service) notifyOwner(ctx context.Context, userID, photoID int64) {
	if s.photos == nil || s.notifications == nil {
		return
	}

	ownerID, err := s.photos.OwnerID(ctx, photoID)
	if err != nil {
		s.logger.Warn("like notification owner lookup failed",
			zap.Error(err), zap.Int64("photo_id", photoID))
		return
	}
	if ownerID == userID {
		return
	}

	pid := photoID
	if err := s.notifications.Create(ctx, model.Notification{
		UserID:  ownerID,
		Kind:    model.NotificationPhotoLiked,
		ActorID: userID,
		PhotoID: &pid,
	}); err != nil {
		s.logger.Warn("like notification insert failed",
			zap.Error(err), zap.Int64("photo_id", photoID))
	}
}

func likeKey(userID int64) string {
	return "like:" + strconv.FormatInt(userID, 10)
}
