package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
)

const defaultMaxBatchSize = 100

var ErrValidation = errors.New("validation error")

type Store interface {
	Insert(ctx context.Context, ev *model.Event) error
	InsertBatch(ctx context.Context, events []*model.Event) error
	ListForUser(ctx context.Context, userID int64, limit int) ([]*model.Event, error)
}

type Config struct {
	MaxBatchSize int
}

type Service struct {
	store Store
	cfg   Config
	log   *zap.Logger
	now   func() time.Time
}

type BatchEvent struct {
	Name  string
	TS    int64
	Props map[string]any
}

func NewService(store Store, cfg Config, log *zap.Logger) *Service {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = defaultMaxBatchSize
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		store: store,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// Record writes a single server-side event. Best effort: analytics never
// fails a domain flow, a lost event is only logged.
func (s *Service) Record(ctx context.Context, userID int64, name string, payload map[string]any) {
	if s.store == nil || strings.TrimSpace(name) == "" {
		return
	}

	ev := &model.Event{
		UserID:     userID,
		Name:       strings.TrimSpace(name),
		OccurredAt: s.now().UTC(),
		Payload:    cloneProps(payload),
	}
	if err := s.store.Insert(ctx, ev); err != nil {
		s.log.Warn("record analytics event",
			zap.String("event", ev.Name), zap.Error(err))
	}
}

// IngestBatch accepts client-reported events.
func (s *Service) IngestBatch(ctx context.Context, userID int64, events []BatchEvent) error {
	if s.store == nil {
		return fmt.Errorf("analytics store is nil")
	}
	if userID <= 0 || len(events) == 0 || len(events) > s.cfg.MaxBatchSize {
		return ErrValidation
	}

	now := s.now().UTC()
	rows := make([]*model.Event, 0, len(events))
	for _, event := range events {
		name := strings.TrimSpace(event.Name)
		if name == "" {
			return ErrValidation
		}

		rows = append(rows, &model.Event{
			UserID:     userID,
			Name:       name,
			OccurredAt: parseTS(event.TS, now),
			Payload:    cloneProps(event.Props),
		})
	}

	if err := s.store.InsertBatch(ctx, rows); err != nil {
		return fmt.Errorf("insert events batch: %w", err)
	}

	return nil
}

func (s *Service) ListRecent(ctx context.Context, userID int64, limit int) ([]*model.Event, error) {
	if s.store == nil {
		return nil, fmt.Errorf("analytics store is nil")
	}
	if userID <= 0 {
		return nil, ErrValidation
	}
	if limit <= 0 || limit > s.cfg.MaxBatchSize {
		limit = s.cfg.MaxBatchSize
	}

	events, err := s.store.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}

func parseTS(ts int64, fallback time.Time) time.Time {
	if ts <= 0 {
		return fallback
	}
	if ts >= 1_000_000_000_000 {
		return time.UnixMilli(ts).UTC()
	}
	return time.Unix(ts, 0).UTC()
}

func cloneProps(props map[string]any) map[string]any {
	if len(props) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(props))
	for key, value := range props {
		out[key] = value
	}
	return out
}
