package announcements

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ashoka0402/Skillswapv6/internal/domain/enums"
	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
	pgrepo "github.com/ashoka0402/Skillswapv6/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("announcement not found")
)

const maxAnnouncementLen = 1000

type Store interface {
	Create(ctx context.Context, a *model.Announcement) error
	GetByID(ctx context.Context, id int64) (*model.Announcement, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	ListActive(ctx context.Context) ([]*model.Announcement, error)
	ListAll(ctx context.Context) ([]*model.Announcement, error)
}

// Publisher fans the fresh active list out to every API instance. Clients
// always receive the full replacement list, never deltas.
type Publisher interface {
	PublishActive(ctx context.Context, items []*model.Announcement) error
}

type Service struct {
	store     Store
	publisher Publisher
	log       *zap.Logger
}

func NewService(store Store, publisher Publisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, publisher: publisher, log: log}
}

func (s *Service) Publish(ctx context.Context, adminID int64, message string, typ enums.AnnouncementType, priority enums.AnnouncementPriority) (*model.Announcement, error) {
	if adminID <= 0 {
		return nil, fmt.Errorf("invalid admin id: %w", ErrValidation)
	}
	message = strings.TrimSpace(message)
	if message == "" || len(message) > maxAnnouncementLen {
		return nil, fmt.Errorf("invalid message: %w", ErrValidation)
	}
	if typ == "" {
		typ = enums.AnnouncementTypeInfo
	}
	if priority == "" {
		priority = enums.AnnouncementPriorityMedium
	}
	if !typ.Valid() || !priority.Valid() {
		return nil, fmt.Errorf("invalid type or priority: %w", ErrValidation)
	}

	a := &model.Announcement{
		Message:  message,
		Type:     typ,
		Priority: priority,
		IsActive: true,
		SentBy:   adminID,
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}

	s.broadcast(ctx)

	return a, nil
}

func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	if id <= 0 {
		return fmt.Errorf("invalid announcement id: %w", ErrValidation)
	}

	if err := s.store.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, pgrepo.ErrAnnouncementNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("set announcement active: %w", err)
	}

	s.broadcast(ctx)

	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid announcement id: %w", ErrValidation)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, pgrepo.ErrAnnouncementNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete announcement: %w", err)
	}

	s.broadcast(ctx)

	return nil
}

func (s *Service) ListActive(ctx context.Context) ([]*model.Announcement, error) {
	items, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active announcements: %w", err)
	}
	if items == nil {
		items = []*model.Announcement{}
	}
	return items, nil
}

func (s *Service) ListAll(ctx context.Context) ([]*model.Announcement, error) {
	items, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	if items == nil {
		items = []*model.Announcement{}
	}
	return items, nil
}

// broadcast publishes the current active list. Delivery is best effort; a
// failed publish never fails the admin operation that triggered it.
func (s *Service) broadcast(ctx context.Context) {
	if s.publisher == nil {
		return
	}

	items, err := s.store.ListActive(ctx)
	if err != nil {
		s.log.Warn("list active announcements for broadcast", zap.Error(err))
		return
	}
	if err := s.publisher.PublishActive(ctx, items); err != nil {
		s.log.Warn("publish active announcements", zap.Error(err))
	}
}
