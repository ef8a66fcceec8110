package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/domain/model"
	redisrepo "github.com/ChaLconner/purrfect-spots-sub001/internal/repo/redis"
	authsvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/auth"
)

type staticUserStore struct {
	user model.User
}

func (s staticUserStore) UpsertByUsername(_ context.Context, username string) (model.User, error) {
	user := s.user
	user.Username = username
	return user, nil
}

func (s staticUserStore) FindByID(_ context.Context, _ int64) (model.User, error) {
	return s.user, nil
}

func newMiniRedisAuthService(t *testing.T) *authsvc.Service {
	t.Helper()

	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return authsvc.NewService(redisrepo.NewSessionRepo(client), staticUserStore{
		user: model.User{ID: 42, Username: "whiskers"},
	}, time.Hour)
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	service := newMiniRedisAuthService(t)
	session, err := service.Login(context.Background(), "whiskers")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	mw := AuthMiddleware(service, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/photos", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok || identity.UserID != 42 {
			t.Fatalf("identity missing or wrong: %+v ok=%v", identity, ok)
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	mw := AuthMiddleware(newMiniRedisAuthService(t), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/photos", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called without a token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsUnknownToken(t *testing.T) {
	mw := AuthMiddleware(newMiniRedisAuthService(t), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/photos", nil)
	req.Header.Set("Authorization", "Bearer not-a-session")
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called with an unknown token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsWhenServiceNil(t *testing.T) {
	mw := AuthMiddleware(nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/photos", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called without an auth service")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Token abc", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		token, ok := extractBearerToken(tc.header)
		if ok != tc.ok || token != tc.token {
			t.Fatalf("extractBearerToken(%q) = %q, %v; want %q, %v", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}
