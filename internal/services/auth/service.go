package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/domain/model"
	"github.com/ChaLconner/purrfect-spots-sub001/internal/pkg/validate"
)

const defaultSessionTTL = 720 * time.Hour

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrSessionNotFound = errors.New("session not found")
)

// SessionRecord is what the session store keeps per opaque token.
type SessionRecord struct {
	UserID    int64
	ExpiresAt time.Time
}

type SessionStore interface {
	Create(ctx context.Context, token string, session SessionRecord) error
	Get(ctx context.Context, token string) (SessionRecord, error)
	Delete(ctx context.Context, token string) error
}

type UserStore interface {
	UpsertByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, userID int64) (model.User, error)
}

type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

type Service struct {
	sessions SessionStore
	users    UserStore
	ttl      time.Duration
	now      func() time.Time
}

func NewService(sessions SessionStore, users UserStore, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}

	return &Service{
		sessions: sessions,
		users:    users,
		ttl:      sessionTTL,
		now:      time.Now,
	}
}

// Login upserts the user by username and issues an opaque session token.
func (s *Service) Login(ctx context.Context, username string) (Session, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !validate.Required(username) {
		return Session{}, ErrInvalidInput
	}
	if s.sessions == nil || s.users == nil {
		return Session{}, fmt.Errorf("auth dependencies are not configured")
	}

	user, err := s.users.UpsertByUsername(ctx, username)
	if err != nil {
		return Session{}, fmt.Errorf("upsert user: %w", err)
	}

	token := uuid.NewString()
	expiresAt := s.now().UTC().Add(s.ttl)
	if err := s.sessions.Create(ctx, token, SessionRecord{
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}

	return Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve maps a bearer token to an identity. Used by the auth middleware.
func (s *Service) Resolve(ctx context.Context, token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, ErrUnauthorized
	}
	if s.sessions == nil {
		return Identity{}, fmt.Errorf("session store is nil")
	}

	record, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Identity{}, ErrUnauthorized
		}
		return Identity{}, err
	}
	if !record.ExpiresAt.After(s.now().UTC()) {
		return Identity{}, ErrUnauthorized
	}

	return Identity{UserID: record.UserID}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidInput
	}
	if s.sessions == nil {
		return fmt.Errorf("session store is nil")
	}

	return s.sessions.Delete(ctx, token)
}
