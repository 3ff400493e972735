package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
	pgrepo "github.com/ashoka0402/Skillswapv6/internal/repo/postgres"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrSelfBan       = errors.New("cannot ban yourself")
	ErrAdminTarget   = errors.New("cannot ban another admin")
	ErrNotBanned     = errors.New("user is not banned")
	ErrAlreadyBanned = errors.New("user is already banned")
)

const (
	maxBanReasonLen = 500
	listUsersLimit  = 10000
	listSwapsLimit  = 200
)

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (model.User, error)
	SetBan(ctx context.Context, userID int64, banned bool, reason string, actorID int64) error
	ListAll(ctx context.Context, limit int) ([]model.User, error)
}

type SwapStore interface {
	GetByID(ctx context.Context, id int64) (*model.SwapRequest, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context, limit, offset int) ([]*model.SwapRequest, error)
}

// SessionKiller revokes every session a user holds. Bans take effect
// immediately because the auth boundary stops seeing the sessions.
type SessionKiller interface {
	DeleteAllForUser(ctx context.Context, userID int64) error
}

type Service struct {
	users    UserStore
	swaps    SwapStore
	sessions SessionKiller
	log      *zap.Logger
	now      func() time.Time
}

func NewService(users UserStore, swaps SwapStore, sessions SessionKiller, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		users:    users,
		swaps:    swaps,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListAll(ctx, listUsersLimit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Service) Ban(ctx context.Context, adminID, userID int64, reason string) error {
	if adminID <= 0 || userID <= 0 {
		return fmt.Errorf("invalid ban payload: %w", ErrValidation)
	}
	if adminID == userID {
		return ErrSelfBan
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > maxBanReasonLen {
		return fmt.Errorf("reason is too long: %w", ErrValidation)
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	if target.IsAdmin {
		return ErrAdminTarget
	}
	if target.IsBanned {
		return ErrAlreadyBanned
	}

	if err := s.users.SetBan(ctx, userID, true, reason, adminID); err != nil {
		return fmt.Errorf("set ban: %w", err)
	}

	if s.sessions != nil {
		if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
			s.log.Warn("revoke sessions of banned user",
				zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	s.log.Info("user banned",
		zap.Int64("user_id", userID),
		zap.Int64("admin_id", adminID))

	return nil
}

func (s *Service) Unban(ctx context.Context, adminID, userID int64) error {
	if adminID <= 0 || userID <= 0 {
		return fmt.Errorf("invalid unban payload: %w", ErrValidation)
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	if !target.IsBanned {
		return ErrNotBanned
	}

	if err := s.users.SetBan(ctx, userID, false, "", adminID); err != nil {
		return fmt.Errorf("clear ban: %w", err)
	}

	s.log.Info("user unbanned",
		zap.Int64("user_id", userID),
		zap.Int64("admin_id", adminID))

	return nil
}

func (s *Service) ListSwaps(ctx context.Context, limit, offset int) ([]*model.SwapRequest, error) {
	if limit <= 0 || limit > listSwapsLimit {
		limit = listSwapsLimit
	}
	if offset < 0 {
		offset = 0
	}

	requests, err := s.swaps.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	return requests, nil
}

// DeleteSwap removes a request regardless of status. Moderation only.
func (s *Service) DeleteSwap(ctx context.Context, adminID, requestID int64) error {
	if adminID <= 0 || requestID <= 0 {
		return fmt.Errorf("invalid delete payload: %w", ErrValidation)
	}

	if err := s.swaps.Delete(ctx, requestID); err != nil {
		if errors.Is(err, pgrepo.ErrSwapNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete swap request: %w", err)
	}

	s.log.Info("swap request deleted",
		zap.Int64("request_id", requestID),
		zap.Int64("admin_id", adminID))

	return nil
}
