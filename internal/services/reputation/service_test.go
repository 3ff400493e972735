package reputation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
	"github.com/ashoka0402/Skillswapv6/internal/domain/rules"
)

func TestEvaluateBadgesGrantsWithXP(t *testing.T) {
	users := newFakeUsers()
	users.put(model.User{
		ID:            7,
		Name:          "Ada",
		Bio:           "teaches things",
		Location:      "Minsk",
		AvatarKey:     "avatars/7.jpg",
		SkillsOffered: []string{"go"},
		SkillsWanted:  []string{"piano"},
	})

	badges := newFakeBadges()
	stats := &fakeStats{stats: model.UserStats{CompletedSwaps: 1}}
	svc := NewService(users, badges, stats, fakeTxRunner)

	awarded, err := svc.EvaluateBadges(context.Background(), 7)
	if err != nil {
		t.Fatalf("evaluate badges: %v", err)
	}

	wantIDs := map[string]bool{
		rules.BadgeFirstSwap:       true,
		rules.BadgeProfileComplete: true,
		rules.BadgeEarlyAdopter:    true,
	}
	if len(awarded) != len(wantIDs) {
		t.Fatalf("awarded %d badges, want %d: %+v", len(awarded), len(wantIDs), awarded)
	}

	wantXP := 0
	for _, b := range awarded {
		if !wantIDs[b.ID] {
			t.Fatalf("unexpected badge %q", b.ID)
		}
		wantXP += b.XPReward
	}
	if got := users.xp(7); got != wantXP {
		t.Fatalf("xp = %d, want %d", got, wantXP)
	}
}

func TestEvaluateBadgesIsIdempotent(t *testing.T) {
	users := newFakeUsers()
	users.put(model.User{ID: 7, Name: "Ada"})

	badges := newFakeBadges()
	stats := &fakeStats{stats: model.UserStats{CompletedSwaps: 1}}
	svc := NewService(users, badges, stats, fakeTxRunner)

	if _, err := svc.EvaluateBadges(context.Background(), 7); err != nil {
		t.Fatalf("first evaluate: %v", err)
	}
	xpAfterFirst := users.xp(7)

	awarded, err := svc.EvaluateBadges(context.Background(), 7)
	if err != nil {
		t.Fatalf("second evaluate: %v", err)
	}
	if len(awarded) != 0 {
		t.Fatalf("second evaluate awarded %+v, want nothing", awarded)
	}
	if users.xp(7) != xpAfterFirst {
		t.Fatalf("xp changed on repeat evaluate: %d -> %d", xpAfterFirst, users.xp(7))
	}
}

func TestSummaryLevels(t *testing.T) {
	users := newFakeUsers()
	users.put(model.User{ID: 3, Name: "Kim"})
	users.addXP(3, 450)

	svc := NewService(users, newFakeBadges(), &fakeStats{}, fakeTxRunner)

	summary, err := svc.Summary(context.Background(), 3)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.XP != 450 {
		t.Fatalf("xp = %d, want 450", summary.XP)
	}
	if summary.Level != 3 {
		t.Fatalf("level = %d, want 3", summary.Level)
	}
	if summary.NextLevelXP != 900 {
		t.Fatalf("next level xp = %d, want 900", summary.NextLevelXP)
	}
	if summary.Completeness != rules.WeightName {
		t.Fatalf("completeness = %d, want %d", summary.Completeness, rules.WeightName)
	}
}

func fakeTxRunner(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
	return fn(ctx, nil)
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]model.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[int64]model.User{}}
}

func (f *fakeUsers) put(user model.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
}

func (f *fakeUsers) xp(userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID].XP
}

func (f *fakeUsers) addXP(userID int64, amount int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := f.users[userID]
	user.XP += amount
	f.users[userID] = user
}

func (f *fakeUsers) GetByID(_ context.Context, userID int64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID], nil
}

func (f *fakeUsers) AddXP(_ context.Context, userID int64, amount int) error {
	f.addXP(userID, amount)
	return nil
}

func (f *fakeUsers) AddXPTx(_ context.Context, _ pgx.Tx, userID int64, amount int) error {
	f.addXP(userID, amount)
	return nil
}

type fakeBadges struct {
	mu      sync.Mutex
	granted map[int64]map[string]time.Time
}

func newFakeBadges() *fakeBadges {
	return &fakeBadges{granted: map[int64]map[string]time.Time{}}
}

func (f *fakeBadges) Grant(_ context.Context, _ pgx.Tx, userID int64, badgeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.granted[userID] == nil {
		f.granted[userID] = map[string]time.Time{}
	}
	if _, ok := f.granted[userID][badgeID]; ok {
		return false, nil
	}
	f.granted[userID][badgeID] = time.Now().UTC()
	return true, nil
}

func (f *fakeBadges) ListForUser(_ context.Context, userID int64) ([]model.GrantedBadge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.GrantedBadge
	for id, at := range f.granted[userID] {
		out = append(out, model.GrantedBadge{BadgeID: id, GrantedAt: at})
	}
	return out, nil
}

type fakeStats struct {
	stats model.UserStats
}

func (f *fakeStats) Compute(_ context.Context, _ int64) (model.UserStats, error) {
	return f.stats, nil
}
