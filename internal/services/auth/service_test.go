package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/pquerna/otp/totp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
	pgrepo "github.com/ashoka0402/Skillswapv6/internal/repo/postgres"
	redrepo "github.com/ashoka0402/Skillswapv6/internal/repo/redis"
	authsvc "github.com/ashoka0402/Skillswapv6/internal/services/auth"
)

const testAdminTOTPSecret = "JBSWY3DPEHPK3PXP"

func TestRegisterAndLogin(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	res, err := svc.Register(ctx, "ada@example.com", "correct-horse", "Ada")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Me.Email != "ada@example.com" || res.Me.Role != "user" {
		t.Fatalf("unexpected me payload: %+v", res.Me)
	}

	if _, err := svc.ValidateAccessToken(ctx, res.AccessToken); err != nil {
		t.Fatalf("validate access token: %v", err)
	}

	if _, err := svc.Register(ctx, "ada@example.com", "correct-horse", "Ada"); !errors.Is(err, authsvc.ErrEmailTaken) {
		t.Fatalf("duplicate register should report taken email, got err=%v", err)
	}

	if _, err := svc.Login(ctx, "ada@example.com", "wrong-password"); !errors.Is(err, authsvc.ErrInvalidCredentials) {
		t.Fatalf("wrong password should be rejected, got err=%v", err)
	}

	if _, err := svc.Login(ctx, "ada@example.com", "correct-horse"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	loginRes, err := svc.Register(ctx, "rot@example.com", "correct-horse", "Rot")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	refreshRes, err := svc.Refresh(ctx, loginRes.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if refreshRes.RefreshToken == loginRes.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}

	if _, err := svc.Refresh(ctx, loginRes.RefreshToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("old refresh token should be unauthorized, got err=%v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, refreshRes.AccessToken); err != nil {
		t.Fatalf("new access token validation failed: %v", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	loginRes, err := svc.Register(ctx, "out@example.com", "correct-horse", "Out")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	claims, err := svc.ValidateAccessToken(ctx, loginRes.AccessToken)
	if err != nil {
		t.Fatalf("validate access token before logout: %v", err)
	}

	if err := svc.Logout(ctx, claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, loginRes.AccessToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("access token should be unauthorized after logout, got err=%v", err)
	}
}

func TestBannedUserCannotLogin(t *testing.T) {
	svc, users, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := svc.Register(ctx, "ban@example.com", "correct-horse", "Ban"); err != nil {
		t.Fatalf("register: %v", err)
	}

	users.setBanned("ban@example.com", true)

	if _, err := svc.Login(ctx, "ban@example.com", "correct-horse"); !errors.Is(err, authsvc.ErrBanned) {
		t.Fatalf("banned login should be rejected, got err=%v", err)
	}
}

func TestAdminStepUp(t *testing.T) {
	svc, users, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := svc.Register(ctx, "root@example.com", "correct-horse", "Root"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "pleb@example.com", "correct-horse", "Pleb"); err != nil {
		t.Fatalf("register: %v", err)
	}
	users.setAdmin("root@example.com", true)

	code, err := totp.GenerateCode(testAdminTOTPSecret, time.Now().UTC())
	if err != nil {
		t.Fatalf("generate totp code: %v", err)
	}

	res, err := svc.LoginAdmin(ctx, "root@example.com", "correct-horse", code)
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if res.Me.Role != "admin" {
		t.Fatalf("expected admin role, got %q", res.Me.Role)
	}

	if _, err := svc.LoginAdmin(ctx, "root@example.com", "correct-horse", "000000"); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("bad totp code should be unauthorized, got err=%v", err)
	}

	if _, err := svc.LoginAdmin(ctx, "pleb@example.com", "correct-horse", code); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("non-admin step-up should be unauthorized, got err=%v", err)
	}
}

type storedUser struct {
	user model.User
	hash string
}

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*storedUser
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*storedUser{}}
}

func (s *fakeUserStore) Create(_ context.Context, email, passwordHash, name string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := s.users[key]; ok {
		return model.User{}, pgrepo.ErrEmailTaken
	}

	s.nextID++
	user := model.User{
		ID:        s.nextID,
		Email:     key,
		Name:      name,
		IsPublic:  true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	s.users[key] = &storedUser{user: user, hash: passwordHash}

	return user, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[strings.ToLower(email)]
	if !ok {
		return model.User{}, "", pgrepo.ErrUserNotFound
	}

	return stored.user, stored.hash, nil
}

func (s *fakeUserStore) setBanned(email string, banned bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.users[strings.ToLower(email)]; ok {
		stored.user.IsBanned = banned
	}
}

func (s *fakeUserStore) setAdmin(email string, admin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.users[strings.ToLower(email)]; ok {
		stored.user.IsAdmin = admin
	}
}

func newAuthServiceForTest(t *testing.T) (*authsvc.Service, *fakeUserStore, func()) {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	sessions := redrepo.NewSessionRepo(client)
	users := newFakeUserStore()
	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute)
	svc := authsvc.NewService(jwtManager, users, sessions, 45*24*time.Hour, testAdminTOTPSecret)

	cleanup := func() {
		_ = client.Close()
		mini.Close()
	}

	return svc, users, cleanup
}
