package admin

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ashoka0402/Skillswapv6/internal/domain/enums"
	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
	pgrepo "github.com/ashoka0402/Skillswapv6/internal/repo/postgres"
)

func TestBanRules(t *testing.T) {
	users := newFakeUsers()
	users.put(model.User{ID: 1, Name: "Root", IsAdmin: true})
	users.put(model.User{ID: 2, Name: "Mallory"})
	users.put(model.User{ID: 3, Name: "Other Admin", IsAdmin: true})

	sessions := &fakeSessions{}
	svc := NewService(users, newFakeSwaps(), sessions, nil)

	ctx := context.Background()

	if err := svc.Ban(ctx, 1, 1, "spam"); !errors.Is(err, ErrSelfBan) {
		t.Fatalf("self ban should be rejected, got err=%v", err)
	}
	if err := svc.Ban(ctx, 1, 3, "spam"); !errors.Is(err, ErrAdminTarget) {
		t.Fatalf("banning an admin should be rejected, got err=%v", err)
	}
	if err := svc.Ban(ctx, 1, 404, "spam"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user should be not found, got err=%v", err)
	}

	if err := svc.Ban(ctx, 1, 2, "spam"); err != nil {
		t.Fatalf("ban: %v", err)
	}
	banned, _ := users.GetByID(ctx, 2)
	if !banned.IsBanned || banned.BanReason != "spam" {
		t.Fatalf("ban not recorded: %+v", banned)
	}
	if !sessions.revoked(2) {
		t.Fatalf("ban should revoke all sessions")
	}

	if err := svc.Ban(ctx, 1, 2, "again"); !errors.Is(err, ErrAlreadyBanned) {
		t.Fatalf("double ban should be rejected, got err=%v", err)
	}

	if err := svc.Unban(ctx, 1, 2); err != nil {
		t.Fatalf("unban: %v", err)
	}
	unbanned, _ := users.GetByID(ctx, 2)
	if unbanned.IsBanned || unbanned.BanReason != "" {
		t.Fatalf("unban not recorded: %+v", unbanned)
	}
	if err := svc.Unban(ctx, 1, 2); !errors.Is(err, ErrNotBanned) {
		t.Fatalf("unbanning an active user should be rejected, got err=%v", err)
	}
}

func TestUsersReport(t *testing.T) {
	users := newFakeUsers()
	users.put(model.User{ID: 1, Name: "Ada", Email: "ada@example.com", IsPublic: true, SkillsOffered: []string{"go", "sql"}, SkillsWanted: []string{"piano"}})
	users.put(model.User{ID: 2, Name: "Mallory", Email: "mal@example.com", IsBanned: true})

	svc := NewService(users, newFakeSwaps(), nil, nil)

	report, err := svc.UsersReport(context.Background())
	if err != nil {
		t.Fatalf("users report: %v", err)
	}
	if report.Filename != "users-report.txt" {
		t.Fatalf("filename = %q", report.Filename)
	}

	for _, want := range []string{
		"User Activity Report",
		"Total Users: 2",
		"Active Users: 1",
		"Banned Users: 1",
		"Public Profiles: 1",
		"Ada (ada@example.com) - Active - Skills: 2 offered, 1 wanted",
		"Mallory (mal@example.com) - BANNED - Skills: 0 offered, 0 wanted",
	} {
		if !strings.Contains(report.Content, want) {
			t.Fatalf("report missing %q:\n%s", want, report.Content)
		}
	}
}

func TestFeedbackReportCountsBothSlots(t *testing.T) {
	users := newFakeUsers()
	users.put(model.User{ID: 1, Name: "Ada"})
	users.put(model.User{ID: 2, Name: "Kim"})

	swaps := newFakeSwaps()
	at := time.Now().UTC()
	swaps.put(&model.SwapRequest{
		ID: 1, SenderID: 1, ReceiverID: 2, Status: enums.SwapStatusCompleted,
		SenderRating:   &model.Rating{Value: 5, Feedback: "great", RatedAt: at},
		ReceiverRating: &model.Rating{Value: 4, RatedAt: at},
	})

	svc := NewService(users, swaps, nil, nil)

	report, err := svc.FeedbackReport(context.Background())
	if err != nil {
		t.Fatalf("feedback report: %v", err)
	}

	for _, want := range []string{
		"Total Reviews: 2",
		"Average Rating: 4.5",
		"5-Star Reviews: 1",
		"4-Star Reviews: 1",
		`5/5 - "great" - Ada → Kim`,
		`4/5 - "No feedback" - Kim → Ada`,
	} {
		if !strings.Contains(report.Content, want) {
			t.Fatalf("report missing %q:\n%s", want, report.Content)
		}
	}
}

func TestDeleteSwap(t *testing.T) {
	swaps := newFakeSwaps()
	swaps.put(&model.SwapRequest{ID: 9, SenderID: 1, ReceiverID: 2, Status: enums.SwapStatusAccepted})

	svc := NewService(newFakeUsers(), swaps, nil, nil)

	ctx := context.Background()
	if err := svc.DeleteSwap(ctx, 1, 9); err != nil {
		t.Fatalf("delete swap: %v", err)
	}
	if err := svc.DeleteSwap(ctx, 1, 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be not found, got err=%v", err)
	}
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

func (f *fakeUsers) GetByID(_ context.Context, userID int64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUsers) SetBan(_ context.Context, userID int64, banned bool, reason string, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return pgrepo.ErrUserNotFound
	}
	user.IsBanned = banned
	user.BanReason = reason
	if !banned {
		user.BanReason = ""
	}
	f.users[userID] = user
	return nil
}

func (f *fakeUsers) ListAll(_ context.Context, _ int) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, nil
}

type fakeSwaps struct {
	mu    sync.Mutex
	byID  map[int64]*model.SwapRequest
	order []int64
}

func newFakeSwaps() *fakeSwaps {
	return &fakeSwaps{byID: map[int64]*model.SwapRequest{}}
}

func (f *fakeSwaps) put(req *model.SwapRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[req.ID] = req
	f.order = append(f.order, req.ID)
}

func (f *fakeSwaps) GetByID(_ context.Context, id int64) (*model.SwapRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.byID[id]
	if !ok {
		return nil, pgrepo.ErrSwapNotFound
	}
	return req, nil
}

func (f *fakeSwaps) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return pgrepo.ErrSwapNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeSwaps) ListAll(_ context.Context, _, _ int) ([]*model.SwapRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.SwapRequest
	for _, id := range f.order {
		if req, ok := f.byID[id]; ok {
			out = append(out, req)
		}
	}
	return out, nil
}

type fakeSessions struct {
	mu      sync.Mutex
	deleted map[int64]bool
}

func (f *fakeSessions) DeleteAllForUser(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleted == nil {
		f.deleted = map[int64]bool{}
	}
	f.deleted[userID] = true
	return nil
}

func (f *fakeSessions) revoked(userID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleted[userID]
}
