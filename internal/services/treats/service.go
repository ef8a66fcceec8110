package treats

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/domain/model"
	"github.com/ChaLconner/purrfect-spots-sub001/internal/pkg/validate"
	pgrepo "github.com/ChaLconner/purrfect-spots-sub001/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrDependenciesNil = errors.New("treats dependencies are not configured")
)

// DeniedError carries the store-reported reason for a refused transfer,
// verbatim. A denied transfer is never retried here: on a transient error we
// cannot tell whether the debit landed, and a retry risks a double spend.
type DeniedError struct {
	Reason string
}

func (e DeniedError) Error() string {
	if e.Reason == "" {
		return "transfer denied"
	}
	return e.Reason
}

func (e DeniedError) Insufficient() bool {
	return strings.Contains(strings.ToLower(e.Reason), "insufficient")
}

func IsDenied(err error) (*DeniedError, bool) {
	var denied DeniedError
	if errors.As(err, &denied) {
		return &denied, true
	}
	return nil, false
}

type LedgerStore interface {
	Transfer(ctx context.Context, fromUserID, photoID, amount int64) (pgrepo.TransferOutcome, error)
	Balance(ctx context.Context, userID int64) (int64, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.TreatTransaction, error)
}

type PhotoStore interface {
	OwnerID(ctx context.Context, photoID int64) (int64, error)
}

type UserStore interface {
	DisplayName(ctx context.Context, userID int64) (string, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n model.Notification) error
}

type TransferResult struct {
	Status     string
	NewBalance int64
	Message    string
}

// Service fronts the store-side atomic transfer. The debit+credit+ledger
// triplet is all-or-nothing inside the store; this service only adds
// validation and the best-effort notification afterwards.
type Service struct {
	ledger        LedgerStore
	photos        PhotoStore
	users         UserStore
	notifications NotificationStore
	logger        *zap.Logger
}

func NewService(ledger LedgerStore, photos PhotoStore, users UserStore, notifications NotificationStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		ledger:        ledger,
		photos:        photos,
		users:         users,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *Service) Give(ctx context.Context, giverID, photoID, amount int64) (TransferResult, error) {
	if !validate.PositiveID(giverID) || !validate.PositiveID(photoID) || amount <= 0 {
		return TransferResult{}, ErrValidation
	}
	if s.ledger == nil {
		return TransferResult{}, ErrDependenciesNil
	}

	outcome, err := s.ledger.Transfer(ctx, giverID, photoID, amount)
	if err != nil {
		return TransferResult{}, fmt.Errorf("transfer treats: %w", err)
	}
	if !outcome.Success {
		return TransferResult{}, DeniedError{Reason: outcome.Reason}
	}

	s.notifyOwner(ctx, giverID, photoID, amount)

	return TransferResult{
		Status:     "ok",
		NewBalance: outcome.NewBalance,
		Message:    "treats sent",
	}, nil
}

func (s *Service) Balance(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, ErrValidation
	}
	if s.ledger == nil {
		return 0, ErrDependenciesNil
	}

	return s.ledger.Balance(ctx, userID)
}

func (s *Service) History(ctx context.Context, userID int64, limit int) ([]model.TreatTransaction, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.ledger == nil {
		return nil, ErrDependenciesNil
	}

	return s.ledger.ListByUser(ctx, userID, limit)
}

// notifyOwner is at-most-once and non-durable: the ledger row is already
// committed, and a lost notification is acceptable. Failures are logged and
// swallowed, never surfaced to the Give caller.
func (s *Service) notifyOwner(ctx context.Context, giverID, photoID, amount int64) {
	if s.photos == nil || s.notifications == nil {
		return
	}

	ownerID, err := s.photos.OwnerID(ctx, photoID)
	if err != nil {
		s.logger.Warn("treat notification owner lookup failed",
			zap.Error(err), zap.Int64("photo_id", photoID))
		return
	}
	if ownerID == giverID {
		return
	}

	giverName := ""
	if s.users != nil {
		if name, err := s.users.DisplayName(ctx, giverID); err != nil {
			s.logger.Warn("treat notification giver lookup failed",
				zap.Error(err), zap.Int64("user_id", giverID))
		} else {
			giverName = name
		}
	}

	pid := photoID
	if err := s.notifications.Create(ctx, model.Notification{
		UserID:      ownerID,
		Kind:        model.NotificationTreatReceived,
		ActorID:     giverID,
		ActorName:   giverName,
		PhotoID:     &pid,
		TreatAmount: amount,
	}); err != nil {
		s.logger.Warn("treat notification insert failed",
			zap.Error(err), zap.Int64("photo_id", photoID), zap.Int64("owner_id", ownerID))
	}
}
