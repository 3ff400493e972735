package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
	"github.com/ashoka0402/Skillswapv6/internal/domain/rules"
)

var ErrValidation = errors.New("validation error")

const (
	signedURLTTL  = 5 * time.Minute
	maxAvatarSize = 5 << 20
)

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (model.User, error)
	SetAvatarKey(ctx context.Context, userID int64, key string) (string, error)
}

type Rewarder interface {
	AwardXP(ctx context.Context, userID int64, amount int) error
	EvaluateBadges(ctx context.Context, userID int64) ([]model.Badge, error)
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Service stores profile avatars in object storage. Each user holds at most
// one avatar; uploading replaces the previous object.
type Service struct {
	users   UserStore
	storage ObjectStorage
	rewards Rewarder
}

type Avatar struct {
	Key string
	URL string
}

func NewService(users UserStore, storage ObjectStorage, rewards Rewarder) *Service {
	return &Service{
		users:   users,
		storage: storage,
		rewards: rewards,
	}
}

func (s *Service) UploadAvatar(ctx context.Context, userID int64, fileName, contentType string, body io.Reader, size int64) (Avatar, error) {
	if userID <= 0 || body == nil || size <= 0 {
		return Avatar{}, ErrValidation
	}
	if size > maxAvatarSize {
		return Avatar{}, fmt.Errorf("avatar exceeds %d bytes: %w", maxAvatarSize, ErrValidation)
	}
	if s.users == nil || s.storage == nil {
		return Avatar{}, fmt.Errorf("media dependencies are not configured")
	}

	contentType = strings.TrimSpace(contentType)
	if !strings.HasPrefix(contentType, "image/") {
		return Avatar{}, fmt.Errorf("avatar must be an image: %w", ErrValidation)
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return Avatar{}, fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey := buildAvatarKey(userID, fileName)
	if err := s.storage.PutObject(ctx, objectKey, body, size, contentType); err != nil {
		return Avatar{}, fmt.Errorf("put object: %w", err)
	}

	previous, err := s.users.SetAvatarKey(ctx, userID, objectKey)
	if err != nil {
		_ = s.storage.Delete(ctx, objectKey)
		return Avatar{}, fmt.Errorf("save avatar key: %w", err)
	}
	if previous != "" && previous != objectKey {
		_ = s.storage.Delete(ctx, previous)
	}

	// The photo bonus pays out once, on the transition from no avatar.
	if previous == "" && s.rewards != nil {
		if err := s.rewards.AwardXP(ctx, userID, rules.XPPhotoUploaded); err != nil {
			return Avatar{}, fmt.Errorf("award photo xp: %w", err)
		}
		if _, err := s.rewards.EvaluateBadges(ctx, userID); err != nil {
			return Avatar{}, fmt.Errorf("evaluate badges: %w", err)
		}
	}

	url, err := s.storage.PresignGet(ctx, objectKey, signedURLTTL)
	if err != nil {
		return Avatar{}, fmt.Errorf("presign avatar url: %w", err)
	}

	return Avatar{Key: objectKey, URL: url}, nil
}

// AvatarURL returns a short-lived signed URL, or "" when the user has no
// avatar.
func (s *Service) AvatarURL(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", ErrValidation
	}
	if s.users == nil || s.storage == nil {
		return "", fmt.Errorf("media dependencies are not configured")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	if user.AvatarKey == "" {
		return "", nil
	}

	url, err := s.storage.PresignGet(ctx, user.AvatarKey, signedURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign avatar url: %w", err)
	}

	return url, nil
}

func (s *Service) DeleteAvatar(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrValidation
	}
	if s.users == nil || s.storage == nil {
		return fmt.Errorf("media dependencies are not configured")
	}

	previous, err := s.users.SetAvatarKey(ctx, userID, "")
	if err != nil {
		return fmt.Errorf("clear avatar key: %w", err)
	}
	if previous != "" {
		_ = s.storage.Delete(ctx, previous)
	}

	return nil
}

func buildAvatarKey(userID int64, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		ext = ".jpg"
	}
	return fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), ext)
}
