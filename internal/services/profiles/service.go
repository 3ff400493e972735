package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ashoka0402/Skillswapv6/internal/domain/enums"
	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
	"github.com/ashoka0402/Skillswapv6/internal/domain/rules"
	pgrepo "github.com/ashoka0402/Skillswapv6/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("profile not found")
)

const (
	maxNameLen     = 100
	maxBioLen      = 1000
	maxLocationLen = 100
	maxSkillLen    = 60
	maxSkillCount  = 20

	maxBrowseLimit = 50
)

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (model.User, error)
	UpdateProfile(ctx context.Context, userID int64, name, bio, location string, availability enums.Availability, isPublic bool) error
	AddSkill(ctx context.Context, userID int64, offered bool, skill string) (bool, error)
	RemoveSkill(ctx context.Context, userID int64, offered bool, skill string) (bool, error)
	Browse(ctx context.Context, filter pgrepo.BrowseFilter) ([]model.User, error)
}

// Rewarder is the slice of the reputation engine the profile flows need.
type Rewarder interface {
	AwardXP(ctx context.Context, userID int64, amount int) error
	EvaluateBadges(ctx context.Context, userID int64) ([]model.Badge, error)
}

type ProfileView struct {
	User         model.User `json:"user"`
	Completeness int        `json:"profile_completeness"`
}

type UpdateInput struct {
	Name         string
	Bio          string
	Location     string
	Availability enums.Availability
	IsPublic     bool
}

type BrowseInput struct {
	Term         string
	Availability string
	Limit        int
	Offset       int
}

type Service struct {
	users   UserStore
	rewards Rewarder
}

func NewService(users UserStore, rewards Rewarder) *Service {
	return &Service{users: users, rewards: rewards}
}

func (s *Service) Get(ctx context.Context, userID int64) (ProfileView, error) {
	if userID <= 0 {
		return ProfileView{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ProfileView{}, ErrNotFound
		}
		return ProfileView{}, fmt.Errorf("get user: %w", err)
	}

	return ProfileView{User: user, Completeness: completenessOf(user)}, nil
}

// GetVisible returns a profile as seen by viewerID. Private profiles stay
// hidden from everyone but their owner.
func (s *Service) GetVisible(ctx context.Context, viewerID, targetID int64) (ProfileView, error) {
	view, err := s.Get(ctx, targetID)
	if err != nil {
		return ProfileView{}, err
	}
	if !view.User.IsPublic && viewerID != targetID {
		return ProfileView{}, ErrNotFound
	}

	return view, nil
}

func (s *Service) Update(ctx context.Context, userID int64, in UpdateInput) (ProfileView, error) {
	if userID <= 0 {
		return ProfileView{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}

	name := strings.TrimSpace(in.Name)
	bio := strings.TrimSpace(in.Bio)
	location := strings.TrimSpace(in.Location)

	if name == "" || len(name) > maxNameLen {
		return ProfileView{}, fmt.Errorf("invalid name: %w", ErrValidation)
	}
	if len(bio) > maxBioLen {
		return ProfileView{}, fmt.Errorf("bio is too long: %w", ErrValidation)
	}
	if len(location) > maxLocationLen {
		return ProfileView{}, fmt.Errorf("location is too long: %w", ErrValidation)
	}
	if in.Availability != "" && !in.Availability.Valid() {
		return ProfileView{}, fmt.Errorf("invalid availability: %w", ErrValidation)
	}

	if err := s.users.UpdateProfile(ctx, userID, name, bio, location, in.Availability, in.IsPublic); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ProfileView{}, ErrNotFound
		}
		return ProfileView{}, fmt.Errorf("update profile: %w", err)
	}

	view, err := s.Get(ctx, userID)
	if err != nil {
		return ProfileView{}, err
	}

	if view.Completeness >= 100 {
		if err := s.rewardCompletion(ctx, userID); err != nil {
			return ProfileView{}, err
		}
	}

	return view, nil
}

func (s *Service) AddSkill(ctx context.Context, userID int64, offered bool, skill string) (ProfileView, error) {
	skill, err := normalizeSkill(skill)
	if err != nil {
		return ProfileView{}, err
	}

	current, err := s.Get(ctx, userID)
	if err != nil {
		return ProfileView{}, err
	}
	if offered && len(current.User.SkillsOffered) >= maxSkillCount {
		return ProfileView{}, fmt.Errorf("too many offered skills: %w", ErrValidation)
	}
	if !offered && len(current.User.SkillsWanted) >= maxSkillCount {
		return ProfileView{}, fmt.Errorf("too many wanted skills: %w", ErrValidation)
	}

	changed, err := s.users.AddSkill(ctx, userID, offered, skill)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ProfileView{}, ErrNotFound
		}
		return ProfileView{}, fmt.Errorf("add skill: %w", err)
	}

	if changed && s.rewards != nil {
		if err := s.rewards.AwardXP(ctx, userID, rules.XPSkillAdded); err != nil {
			return ProfileView{}, fmt.Errorf("award skill xp: %w", err)
		}
		if _, err := s.rewards.EvaluateBadges(ctx, userID); err != nil {
			return ProfileView{}, fmt.Errorf("evaluate badges: %w", err)
		}
	}

	return s.Get(ctx, userID)
}

func (s *Service) RemoveSkill(ctx context.Context, userID int64, offered bool, skill string) (ProfileView, error) {
	skill, err := normalizeSkill(skill)
	if err != nil {
		return ProfileView{}, err
	}

	if _, err := s.users.RemoveSkill(ctx, userID, offered, skill); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ProfileView{}, ErrNotFound
		}
		return ProfileView{}, fmt.Errorf("remove skill: %w", err)
	}

	return s.Get(ctx, userID)
}

// Browse lists public profiles other than the viewer's own, filtered by a
// free-text term over names and skills and by availability.
func (s *Service) Browse(ctx context.Context, viewerID int64, in BrowseInput) ([]ProfileView, error) {
	if viewerID <= 0 {
		return nil, fmt.Errorf("invalid viewer id: %w", ErrValidation)
	}

	limit := in.Limit
	if limit <= 0 || limit > maxBrowseLimit {
		limit = maxBrowseLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	availability := strings.TrimSpace(strings.ToLower(in.Availability))
	if availability != "" && !enums.Availability(availability).Valid() {
		return nil, fmt.Errorf("invalid availability filter: %w", ErrValidation)
	}

	users, err := s.users.Browse(ctx, pgrepo.BrowseFilter{
		Term:         strings.TrimSpace(in.Term),
		Availability: availability,
		ExcludeID:    viewerID,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, fmt.Errorf("browse users: %w", err)
	}

	views := make([]ProfileView, 0, len(users))
	for _, user := range users {
		views = append(views, ProfileView{User: user, Completeness: completenessOf(user)})
	}

	return views, nil
}

// rewardCompletion pays the one-time completion bonus. The action XP rides
// on the badge grant so repeat saves of a complete profile pay nothing.
func (s *Service) rewardCompletion(ctx context.Context, userID int64) error {
	if s.rewards == nil {
		return nil
	}

	awarded, err := s.rewards.EvaluateBadges(ctx, userID)
	if err != nil {
		return fmt.Errorf("evaluate badges: %w", err)
	}
	for _, badge := range awarded {
		if badge.ID == rules.BadgeProfileComplete {
			if err := s.rewards.AwardXP(ctx, userID, rules.XPProfileComplete); err != nil {
				return fmt.Errorf("award completion xp: %w", err)
			}
			return nil
		}
	}

	return nil
}

func normalizeSkill(skill string) (string, error) {
	skill = strings.Join(strings.Fields(skill), " ")
	if skill == "" || len(skill) > maxSkillLen {
		return "", fmt.Errorf("invalid skill: %w", ErrValidation)
	}
	return skill, nil
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
