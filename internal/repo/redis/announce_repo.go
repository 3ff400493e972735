package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
)

// AnnounceRepo fans announcement changes out over a redis channel so every
// API instance can push the fresh active list to its websocket clients.
type AnnounceRepo struct {
	client  *goredis.Client
	channel string
}

func NewAnnounceRepo(client *goredis.Client, channel string) *AnnounceRepo {
	return &AnnounceRepo{client: client, channel: channel}
}

func (r *AnnounceRepo) PublishActive(ctx context.Context, items []*model.Announcement) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal announcement list: %w", err)
	}

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish announcement list: %w", err)
	}

	return nil
}

// Subscribe delivers each published active list until ctx is cancelled.
func (r *AnnounceRepo) Subscribe(ctx context.Context, fn func([]*model.Announcement)) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	sub := r.client.Subscribe(ctx, r.channel)
	defer func() {
		_ = sub.Close()
	}()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var items []*model.Announcement
			if err := json.Unmarshal([]byte(msg.Payload), &items); err != nil {
				continue
			}
			fn(items)
		}
	}
}
