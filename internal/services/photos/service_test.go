package photos

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/domain/model"
)

type fakeStore struct {
	photos    []model.Photo
	createErr error
	nextID    int64
}

func (f *fakeStore) Create(_ context.Context, userID int64, objectKey, caption string) (model.Photo, error) {
	if f.createErr != nil {
		return model.Photo{}, f.createErr
	}
	f.nextID++
	photo := model.Photo{
		ID:        f.nextID,
		UserID:    userID,
		ObjectKey: objectKey,
		Caption:   caption,
		CreatedAt: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
	}
	f.photos = append(f.photos, photo)
	return photo, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID int64, _ int) ([]model.Photo, error) {
	items := make([]model.Photo, 0)
	for _, photo := range f.photos {
		if photo.UserID == userID && photo.DeletedAt == nil {
			items = append(items, photo)
		}
	}
	return items, nil
}

func (f *fakeStore) SoftDelete(_ context.Context, userID, photoID int64) error {
	now := time.Now().UTC()
	for i := range f.photos {
		if f.photos[i].ID == photoID && f.photos[i].UserID == userID {
			f.photos[i].DeletedAt = &now
			return nil
		}
	}
	return errors.New("photo not found")
}

type fakeStorage struct {
	objects map[string]bool
	putErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]bool)}
}

func (f *fakeStorage) EnsureBucket(_ context.Context) error { return nil }

func (f *fakeStorage) PutObject(_ context.Context, key string, _ io.Reader, _ int64, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = true
	return nil
}

func (f *fakeStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://cdn.example/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

type fakeQuota struct {
	allow bool
	calls int
}

func (f *fakeQuota) CheckAndIncrement(_ context.Context, _ int64, _ bool) bool {
	f.calls++
	return f.allow
}

type fakePro struct {
	isPro bool
	err   error
}

func (f *fakePro) IsPro(_ context.Context, _ int64) (bool, error) {
	return f.isPro, f.err
}

type fakeLimiter struct {
	allow bool
	retry int64
}

func (f *fakeLimiter) Allow(_ string) bool       { return f.allow }
func (f *fakeLimiter) RetryAfter(_ string) int64 { return f.retry }

func TestUploadHappyPath(t *testing.T) {
	store := &fakeStore{}
	storage := newFakeStorage()
	quota := &fakeQuota{allow: true}
	service := NewService(store, storage, quota, &fakePro{}, &fakeLimiter{allow: true}, nil)

	photo, err := service.Upload(context.Background(), 1, "cat.jpg", "image/jpeg", strings.NewReader("data"), 4, "my cat")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if photo.ID == 0 || !strings.HasPrefix(photo.URL, "https://cdn.example/photos/1/") {
		t.Fatalf("unexpected photo: %+v", photo)
	}
	if quota.calls != 1 {
		t.Fatalf("expected one quota check, got %d", quota.calls)
	}
	if len(storage.objects) != 1 {
		t.Fatalf("expected one stored object, got %d", len(storage.objects))
	}
}

func TestUploadRateLimitedBeforeQuota(t *testing.T) {
	quota := &fakeQuota{allow: true}
	service := NewService(&fakeStore{}, newFakeStorage(), quota, &fakePro{}, &fakeLimiter{allow: false, retry: 7}, nil)

	_, err := service.Upload(context.Background(), 1, "cat.jpg", "image/jpeg", strings.NewReader("data"), 4, "")
	tf, ok := IsTooFast(err)
	if !ok {
		t.Fatalf("expected too-fast error, got %v", err)
	}
	if tf.RetryAfter() != 7 {
		t.Fatalf("unexpected retry_after: %d", tf.RetryAfter())
	}
	if quota.calls != 0 {
		t.Fatalf("expected quota untouched when rate limited")
	}
}

func TestUploadQuotaDenied(t *testing.T) {
	storage := newFakeStorage()
	service := NewService(&fakeStore{}, storage, &fakeQuota{allow: false}, &fakePro{}, &fakeLimiter{allow: true}, nil)

	_, err := service.Upload(context.Background(), 1, "cat.jpg", "image/jpeg", strings.NewReader("data"), 4, "")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if len(storage.objects) != 0 {
		t.Fatalf("expected no object stored after quota denial")
	}
}

func TestUploadCompensatesObjectOnRowFailure(t *testing.T) {
	store := &fakeStore{createErr: errors.New("insert failed")}
	storage := newFakeStorage()
	service := NewService(store, storage, &fakeQuota{allow: true}, &fakePro{}, &fakeLimiter{allow: true}, nil)

	if _, err := service.Upload(context.Background(), 1, "cat.jpg", "image/jpeg", strings.NewReader("data"), 4, ""); err == nil {
		t.Fatalf("expected upload failure")
	}
	if len(storage.objects) != 0 {
		t.Fatalf("expected uploaded object to be deleted after row failure")
	}
}

func TestUploadProLookupFailureTreatsAsFree(t *testing.T) {
	service := NewService(&fakeStore{}, newFakeStorage(), &fakeQuota{allow: true}, &fakePro{err: errors.New("query timeout")}, &fakeLimiter{allow: true}, nil)

	if _, err := service.Upload(context.Background(), 1, "cat.jpg", "image/jpeg", strings.NewReader("data"), 4, ""); err != nil {
		t.Fatalf("expected upload to proceed as free tier, got %v", err)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	service := NewService(&fakeStore{}, newFakeStorage(), &fakeQuota{allow: true}, &fakePro{}, &fakeLimiter{allow: true}, nil)

	_, err := service.Upload(context.Background(), 1, "cat.exe", "application/octet-stream", strings.NewReader("data"), 4, "")
	if !errors.Is(err, ErrUnsupportedMedia) {
		t.Fatalf("expected unsupported media error, got %v", err)
	}
}

func TestListAndDelete(t *testing.T) {
	store := &fakeStore{}
	service := NewService(store, newFakeStorage(), &fakeQuota{allow: true}, &fakePro{}, &fakeLimiter{allow: true}, nil)

	ctx := context.Background()
	photo, err := service.Upload(ctx, 1, "cat.png", "image/png", strings.NewReader("data"), 4, "first")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	photos, err := service.List(ctx, 1, 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(photos) != 1 || photos[0].Caption != "first" {
		t.Fatalf("unexpected list: %+v", photos)
	}

	if err := service.Delete(ctx, 1, photo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	photos, err = service.List(ctx, 1, 50)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(photos) != 0 {
		t.Fatalf("expected soft-deleted photo hidden from list")
	}
}
