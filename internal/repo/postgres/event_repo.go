package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Insert(ctx context.Context, ev *model.Event) error {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
INSERT INTO events (user_id, name, occurred_at, payload)
VALUES ($1, $2, $3, $4)
RETURNING id
`, ev.UserID, ev.Name, ev.OccurredAt, payload).Scan(&ev.ID)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

func (r *EventRepo) InsertBatch(ctx context.Context, events []*model.Event) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, ev := range events {
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("marshal event payload: %w", err)
		}
		batch.Queue(`
INSERT INTO events (user_id, name, occurred_at, payload)
VALUES ($1, $2, $3, $4)
`, ev.UserID, ev.Name, ev.OccurredAt, payload)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range events {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert event batch: %w", err)
		}
	}

	return nil
}

func (r *EventRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]*model.Event, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, name, occurred_at, payload
FROM events
WHERE user_id = $1
ORDER BY occurred_at DESC, id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var items []*model.Event
	for rows.Next() {
		var (
			ev  model.Event
			raw []byte
		)
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Name, &ev.OccurredAt, &raw); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &ev.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal event payload: %w", err)
			}
		}
		items = append(items, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return items, nil
}

// PruneOlderThan deletes events past the retention window.
func (r *EventRepo) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}

	return tag.RowsAffected(), nil
}
