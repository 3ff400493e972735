package reputation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
	"github.com/ashoka0402/Skillswapv6/internal/domain/rules"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrDependenciesNil = errors.New("reputation dependencies are not configured")
)

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (model.User, error)
	AddXP(ctx context.Context, userID int64, amount int) error
	AddXPTx(ctx context.Context, tx pgx.Tx, userID int64, amount int) error
}

type BadgeStore interface {
	Grant(ctx context.Context, tx pgx.Tx, userID int64, badgeID string) (bool, error)
	ListForUser(ctx context.Context, userID int64) ([]model.GrantedBadge, error)
}

type StatsProvider interface {
	Compute(ctx context.Context, userID int64) (model.UserStats, error)
}

// TxRunner runs fn inside a database transaction. Wired to postgres.WithTx
// in production, replaceable in tests.
type TxRunner func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error

type HeldBadge struct {
	Badge     model.Badge `json:"badge"`
	GrantedAt time.Time   `json:"granted_at"`
}

type Summary struct {
	XP           int         `json:"xp"`
	Level        int         `json:"level"`
	NextLevelXP  int         `json:"next_level_xp"`
	Completeness int         `json:"profile_completeness"`
	Badges       []HeldBadge `json:"badges"`
}

type Service struct {
	users  UserStore
	badges BadgeStore
	stats  StatsProvider
	runTx  TxRunner
}

func NewService(users UserStore, badges BadgeStore, stats StatsProvider, runTx TxRunner) *Service {
	return &Service{
		users:  users,
		badges: badges,
		stats:  stats,
		runTx:  runTx,
	}
}

func (s *Service) Summary(ctx context.Context, userID int64) (Summary, error) {
	if userID <= 0 {
		return Summary{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.users == nil || s.badges == nil {
		return Summary{}, ErrDependenciesNil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("get user: %w", err)
	}

	granted, err := s.badges.ListForUser(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("list badges: %w", err)
	}

	held := make([]HeldBadge, 0, len(granted))
	for _, g := range granted {
		badge, ok := rules.BadgeByID(g.BadgeID)
		if !ok {
			continue
		}
		held = append(held, HeldBadge{Badge: badge, GrantedAt: g.GrantedAt})
	}

	level := rules.Level(user.XP)

	return Summary{
		XP:           user.XP,
		Level:        level,
		NextLevelXP:  rules.XPForLevel(level),
		Completeness: completenessOf(user),
		Badges:       held,
	}, nil
}

// AwardXP adds a fixed XP amount for an engagement action.
func (s *Service) AwardXP(ctx context.Context, userID int64, amount int) error {
	if userID <= 0 || amount <= 0 {
		return fmt.Errorf("invalid xp award: %w", ErrValidation)
	}
	if s.users == nil {
		return ErrDependenciesNil
	}

	if err := s.users.AddXP(ctx, userID, amount); err != nil {
		return fmt.Errorf("award xp: %w", err)
	}

	return nil
}

// EvaluateBadges grants every badge the user newly qualifies for. Each grant
// lands together with its XP reward in one transaction; already-held badges
// never pay out twice.
func (s *Service) EvaluateBadges(ctx context.Context, userID int64) ([]model.Badge, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.users == nil || s.badges == nil || s.stats == nil || s.runTx == nil {
		return nil, ErrDependenciesNil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	userStats, err := s.stats.Compute(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("compute stats: %w", err)
	}

	granted, err := s.badges.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	heldIDs := make([]string, 0, len(granted))
	for _, g := range granted {
		heldIDs = append(heldIDs, g.BadgeID)
	}

	candidates := rules.EligibleBadges(rules.EligibilityInput{
		Rating:              userStats.AverageRating,
		RatingsReceived:     userStats.TotalRatings,
		SwapsCompleted:      userStats.CompletedSwaps,
		FeedbackGiven:       userStats.FeedbackGiven,
		ProfileCompleteness: completenessOf(user),
		SkillsOffered:       len(user.SkillsOffered),
		UserNumber:          user.ID,
		HeldBadges:          heldIDs,
	})
	if len(candidates) == 0 {
		return nil, nil
	}

	var awarded []model.Badge
	err = s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, badgeID := range candidates {
			badge, ok := rules.BadgeByID(badgeID)
			if !ok {
				continue
			}

			inserted, err := s.badges.Grant(ctx, tx, userID, badgeID)
			if err != nil {
				return err
			}
			if !inserted {
				continue
			}

			if badge.XPReward > 0 {
				if err := s.users.AddXPTx(ctx, tx, userID, badge.XPReward); err != nil {
					return err
				}
			}
			awarded = append(awarded, badge)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("grant badges: %w", err)
	}

	return awarded, nil
}

func completenessOf(user model.User) int {
	return rules.ProfileCompleteness(rules.CompletenessInput{
		Name:          user.Name,
		Bio:           user.Bio,
		Location:      user.Location,
		HasPhoto:      user.AvatarKey != "",
		SkillsOffered: user.SkillsOffered,
		SkillsWanted:  user.SkillsWanted,
	})
}
