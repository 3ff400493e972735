package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
)

type AnnouncementStore interface {
	DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	ListActive(ctx context.Context) ([]*model.Announcement, error)
}

type EventStore interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Publisher interface {
	PublishActive(ctx context.Context, items []*model.Announcement) error
}

// Job retires stale announcements and prunes old analytics events. It is
// safe to run concurrently on several instances; both sweeps are idempotent.
type Job struct {
	announcements AnnouncementStore
	events        EventStore
	publisher     Publisher

	announcementRetention time.Duration
	eventRetention        time.Duration
	now                   func() time.Time
	logger                *zap.Logger
}

func New(
	announcements AnnouncementStore,
	events EventStore,
	announcementRetention time.Duration,
	eventRetention time.Duration,
	logger *zap.Logger,
) *Job {
	if announcementRetention <= 0 {
		announcementRetention = 90 * 24 * time.Hour
	}
	if eventRetention <= 0 {
		eventRetention = 180 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		announcements:         announcements,
		events:                events,
		announcementRetention: announcementRetention,
		eventRetention:        eventRetention,
		now:                   time.Now,
		logger:                logger,
	}
}

// AttachPublisher makes the job push the fresh active list to subscribers
// after a sweep deactivates something.
func (j *Job) AttachPublisher(publisher Publisher) {
	j.publisher = publisher
}

func (j *Job) Run(ctx context.Context) error {
	if j.announcements != nil {
		cutoff := j.now().Add(-j.announcementRetention)
		retired, err := j.announcements.DeactivateOlderThan(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("deactivate stale announcements: %w", err)
		}
		if retired > 0 {
			j.logger.Info("retired stale announcements", zap.Int64("count", retired))
			if j.publisher != nil {
				if items, err := j.announcements.ListActive(ctx); err == nil {
					if err := j.publisher.PublishActive(ctx, items); err != nil {
						j.logger.Warn("publish active announcements after sweep", zap.Error(err))
					}
				}
			}
		}
	}

	if j.events != nil {
		cutoff := j.now().Add(-j.eventRetention)
		pruned, err := j.events.PruneOlderThan(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("prune old events: %w", err)
		}
		if pruned > 0 {
			j.logger.Info("pruned old analytics events", zap.Int64("count", pruned))
		}
	}

	return nil
}

// Loop runs the job immediately and then on every tick until ctx is done.
func (j *Job) Loop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	if err := j.Run(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				return err
			}
		}
	}
}
