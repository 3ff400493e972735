package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
	"github.com/ashoka0402/Skillswapv6/internal/domain/rules"
)

func TestUploadAvatarReplacesPrevious(t *testing.T) {
	users := &fakeUsers{user: model.User{ID: 1, Name: "Ada"}}
	storage := newFakeStorage()
	rewards := &fakeRewards{}
	svc := NewService(users, storage, rewards)

	ctx := context.Background()

	first, err := svc.UploadAvatar(ctx, 1, "me.png", "image/png", bytes.NewReader([]byte("png")), 3)
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if !strings.HasPrefix(first.Key, "avatars/1/") || !strings.HasSuffix(first.Key, ".png") {
		t.Fatalf("unexpected object key %q", first.Key)
	}
	if rewards.xp != rules.XPPhotoUploaded {
		t.Fatalf("xp after first upload = %d, want %d", rewards.xp, rules.XPPhotoUploaded)
	}

	second, err := svc.UploadAvatar(ctx, 1, "me2.jpg", "image/jpeg", bytes.NewReader([]byte("jpg")), 3)
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if storage.exists(first.Key) {
		t.Fatalf("previous avatar object should be deleted")
	}
	if !storage.exists(second.Key) {
		t.Fatalf("new avatar object missing")
	}
	if rewards.xp != rules.XPPhotoUploaded {
		t.Fatalf("photo bonus paid twice: xp=%d", rewards.xp)
	}
}

func TestUploadAvatarValidation(t *testing.T) {
	svc := NewService(&fakeUsers{user: model.User{ID: 1}}, newFakeStorage(), nil)
	ctx := context.Background()

	if _, err := svc.UploadAvatar(ctx, 1, "notes.txt", "text/plain", bytes.NewReader([]byte("x")), 1); !errors.Is(err, ErrValidation) {
		t.Fatalf("non-image upload should fail validation, got err=%v", err)
	}
	if _, err := svc.UploadAvatar(ctx, 1, "big.png", "image/png", bytes.NewReader(nil), maxAvatarSize+1); !errors.Is(err, ErrValidation) {
		t.Fatalf("oversized upload should fail validation, got err=%v", err)
	}
}

func TestAvatarURLWithoutAvatar(t *testing.T) {
	svc := NewService(&fakeUsers{user: model.User{ID: 1}}, newFakeStorage(), nil)

	url, err := svc.AvatarURL(context.Background(), 1)
	if err != nil {
		t.Fatalf("avatar url: %v", err)
	}
	if url != "" {
		t.Fatalf("url = %q, want empty for missing avatar", url)
	}
}

type fakeUsers struct {
	mu   sync.Mutex
	user model.User
}

func (f *fakeUsers) GetByID(_ context.Context, _ int64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user, nil
}

func (f *fakeUsers) SetAvatarKey(_ context.Context, _ int64, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	previous := f.user.AvatarKey
	f.user.AvatarKey = key
	return previous, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) EnsureBucket(_ context.Context) error { return nil }

func (f *fakeStorage) PutObject(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.test/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) exists(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

type fakeRewards struct {
	mu sync.Mutex
	xp int
}

func (f *fakeRewards) AwardXP(_ context.Context, _ int64, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.xp += amount
	return nil
}

func (f *fakeRewards) EvaluateBadges(_ context.Context, _ int64) ([]model.Badge, error) {
	return nil, nil
}
