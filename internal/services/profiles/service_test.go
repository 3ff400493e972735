package profiles

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ashoka0402/Skillswapv6/internal/domain/enums"
	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
	"github.com/ashoka0402/Skillswapv6/internal/domain/rules"
	pgrepo "github.com/ashoka0402/Skillswapv6/internal/repo/postgres"
)

func TestUpdateValidatesInput(t *testing.T) {
	store := newFakeStore()
	store.put(model.User{ID: 1, Name: "Ada", IsPublic: true})
	svc := NewService(store, nil)

	ctx := context.Background()

	if _, err := svc.Update(ctx, 1, UpdateInput{Name: "   "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name should fail validation, got err=%v", err)
	}

	if _, err := svc.Update(ctx, 1, UpdateInput{Name: "Ada", Availability: "sometimes"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown availability should fail validation, got err=%v", err)
	}

	view, err := svc.Update(ctx, 1, UpdateInput{
		Name:         "Ada Lovelace",
		Bio:          "first programmer",
		Location:     "London",
		Availability: enums.AvailabilityEvenings,
		IsPublic:     true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if view.User.Name != "Ada Lovelace" || view.User.Availability != enums.AvailabilityEvenings {
		t.Fatalf("unexpected user after update: %+v", view.User)
	}
}

func TestCompletionBonusPaidOnce(t *testing.T) {
	store := newFakeStore()
	store.put(model.User{
		ID:            1,
		Name:          "Ada",
		AvatarKey:     "avatars/1.jpg",
		SkillsOffered: []string{"go"},
		SkillsWanted:  []string{"piano"},
		IsPublic:      true,
	})
	rewards := newFakeRewarder()
	svc := NewService(store, rewards)

	ctx := context.Background()
	in := UpdateInput{Name: "Ada", Bio: "hi", Location: "London", IsPublic: true}

	if _, err := svc.Update(ctx, 1, in); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if rewards.totalXP(1) != rules.XPProfileComplete {
		t.Fatalf("xp after first completion = %d, want %d", rewards.totalXP(1), rules.XPProfileComplete)
	}

	if _, err := svc.Update(ctx, 1, in); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if rewards.totalXP(1) != rules.XPProfileComplete {
		t.Fatalf("completion bonus paid twice: xp=%d", rewards.totalXP(1))
	}
}

func TestAddSkillAwardsXPOnlyOnChange(t *testing.T) {
	store := newFakeStore()
	store.put(model.User{ID: 1, Name: "Ada", IsPublic: true})
	rewards := newFakeRewarder()
	svc := NewService(store, rewards)

	ctx := context.Background()

	view, err := svc.AddSkill(ctx, 1, true, "  Go   Programming ")
	if err != nil {
		t.Fatalf("add skill: %v", err)
	}
	if len(view.User.SkillsOffered) != 1 || view.User.SkillsOffered[0] != "Go Programming" {
		t.Fatalf("unexpected offered skills: %v", view.User.SkillsOffered)
	}
	if rewards.totalXP(1) != rules.XPSkillAdded {
		t.Fatalf("xp = %d, want %d", rewards.totalXP(1), rules.XPSkillAdded)
	}

	// Same skill again is a no-op and pays nothing.
	if _, err := svc.AddSkill(ctx, 1, true, "Go Programming"); err != nil {
		t.Fatalf("re-add skill: %v", err)
	}
	if rewards.totalXP(1) != rules.XPSkillAdded {
		t.Fatalf("duplicate skill paid xp: %d", rewards.totalXP(1))
	}
}

func TestGetVisibleHidesPrivateProfiles(t *testing.T) {
	store := newFakeStore()
	store.put(model.User{ID: 1, Name: "Ada", IsPublic: false})
	svc := NewService(store, nil)

	ctx := context.Background()

	if _, err := svc.GetVisible(ctx, 2, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("private profile should be hidden, got err=%v", err)
	}
	if _, err := svc.GetVisible(ctx, 1, 1); err != nil {
		t.Fatalf("owner should see own private profile: %v", err)
	}
}

type fakeStore struct {
	mu    sync.Mutex
	users map[int64]model.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[int64]model.User{}}
}

func (f *fakeStore) put(user model.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
}

func (f *fakeStore) GetByID(_ context.Context, userID int64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, userID int64, name, bio, location string, availability enums.Availability, isPublic bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return pgrepo.ErrUserNotFound
	}
	user.Name = name
	user.Bio = bio
	user.Location = location
	if availability != "" {
		user.Availability = availability
	}
	user.IsPublic = isPublic
	f.users[userID] = user
	return nil
}

func (f *fakeStore) AddSkill(_ context.Context, userID int64, offered bool, skill string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return false, pgrepo.ErrUserNotFound
	}

	list := user.SkillsWanted
	if offered {
		list = user.SkillsOffered
	}
	for _, existing := range list {
		if strings.EqualFold(existing, skill) {
			return false, nil
		}
	}
	list = append(list, skill)
	if offered {
		user.SkillsOffered = list
	} else {
		user.SkillsWanted = list
	}
	f.users[userID] = user
	return true, nil
}

func (f *fakeStore) RemoveSkill(_ context.Context, userID int64, offered bool, skill string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return false, pgrepo.ErrUserNotFound
	}

	list := user.SkillsWanted
	if offered {
		list = user.SkillsOffered
	}
	out := list[:0]
	removed := false
	for _, existing := range list {
		if strings.EqualFold(existing, skill) {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	if offered {
		user.SkillsOffered = out
	} else {
		user.SkillsWanted = out
	}
	f.users[userID] = user
	return removed, nil
}

func (f *fakeStore) Browse(_ context.Context, filter pgrepo.BrowseFilter) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, user := range f.users {
		if !user.IsPublic || user.ID == filter.ExcludeID {
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

type fakeRewarder struct {
	mu sync.Mutex
	xp map[int64]int

	profileCompleteGranted map[int64]bool
}

func newFakeRewarder() *fakeRewarder {
	return &fakeRewarder{
		xp:                     map[int64]int{},
		profileCompleteGranted: map[int64]bool{},
	}
}

func (f *fakeRewarder) AwardXP(_ context.Context, userID int64, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.xp[userID] += amount
	return nil
}

// EvaluateBadges mimics the engine's idempotent profile_complete grant. The
// badge reward itself is left out so tests can assert pure action XP.
func (f *fakeRewarder) EvaluateBadges(_ context.Context, userID int64) ([]model.Badge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profileCompleteGranted[userID] {
		return nil, nil
	}
	f.profileCompleteGranted[userID] = true
	badge, _ := rules.BadgeByID(rules.BadgeProfileComplete)
	return []model.Badge{badge}, nil
}

func (f *fakeRewarder) totalXP(userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.xp[userID]
}
