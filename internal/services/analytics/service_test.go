package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
)

func TestIngestBatch(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, Config{MaxBatchSize: 10}, nil)
	svc.now = func() time.Time { return time.Unix(1_700_000_000, 0).UTC() }

	err := svc.IngestBatch(context.Background(), 7, []BatchEvent{
		{Name: "page_view", TS: 1_699_999_000, Props: map[string]any{"path": "/browse"}},
		{Name: "swap_opened", TS: 1_699_999_000_500},
		{Name: " search "},
	})
	if err != nil {
		t.Fatalf("ingest batch: %v", err)
	}

	events := store.all()
	if len(events) != 3 {
		t.Fatalf("stored %d events, want 3", len(events))
	}
	if events[0].OccurredAt.Unix() != 1_699_999_000 {
		t.Fatalf("second-precision ts not honored: %v", events[0].OccurredAt)
	}
	if events[1].OccurredAt.UnixMilli() != 1_699_999_000_500 {
		t.Fatalf("millisecond ts not honored: %v", events[1].OccurredAt)
	}
	if !events[2].OccurredAt.Equal(time.Unix(1_700_000_000, 0).UTC()) {
		t.Fatalf("missing ts should fall back to now, got %v", events[2].OccurredAt)
	}
	if events[2].Name != "search" {
		t.Fatalf("event name not trimmed: %q", events[2].Name)
	}
}

func TestIngestBatchValidation(t *testing.T) {
	svc := NewService(newFakeStore(), Config{MaxBatchSize: 2}, nil)
	ctx := context.Background()

	if err := svc.IngestBatch(ctx, 0, []BatchEvent{{Name: "x"}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero user should fail, got err=%v", err)
	}
	if err := svc.IngestBatch(ctx, 1, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty batch should fail, got err=%v", err)
	}
	if err := svc.IngestBatch(ctx, 1, []BatchEvent{{Name: "a"}, {Name: "b"}, {Name: "c"}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("oversized batch should fail, got err=%v", err)
	}
	if err := svc.IngestBatch(ctx, 1, []BatchEvent{{Name: "   "}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank event name should fail, got err=%v", err)
	}
}

func TestRecordIsBestEffort(t *testing.T) {
	store := newFakeStore()
	store.failInsert = errors.New("db down")
	svc := NewService(store, Config{}, nil)

	// Must not panic or surface the failure.
	svc.Record(context.Background(), 1, "swap_created", map[string]any{"swap_id": 9})

	if got := len(store.all()); got != 0 {
		t.Fatalf("stored %d events, want 0", got)
	}
}

type fakeStore struct {
	mu         sync.Mutex
	events     []*model.Event
	failInsert error
}

func newFakeStore() *fakeStore { return &fakeStore{} }

func (f *fakeStore) Insert(_ context.Context, ev *model.Event) error {
	if f.failInsert != nil {
		return f.failInsert
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeStore) InsertBatch(_ context.Context, events []*model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeStore) ListForUser(_ context.Context, userID int64, limit int) ([]*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Event
	for _, ev := range f.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) all() []*model.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.Event(nil), f.events...)
}
