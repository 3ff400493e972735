package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/ashoka0402/Skillswapv6/internal/domain/enums"
	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
	"github.com/ashoka0402/Skillswapv6/internal/domain/rules"
)

var ErrValidation = errors.New("validation error")

// Users start at a full five-star average until somebody actually rates them.
const defaultAverageRating = 5.0

type SwapStore interface {
	ListForUser(ctx context.Context, userID int64) ([]*model.SwapRequest, error)
}

type UserStatsCache interface {
	UpdateRatingStats(ctx context.Context, userID int64, rating float64, completedSwaps int) error
}

// Service derives per-user statistics by scanning the user's swap requests.
// Swap requests are the source of truth; the users table only carries a
// display cache refreshed through this service.
type Service struct {
	swaps SwapStore
	cache UserStatsCache
}

func NewService(swaps SwapStore, cache UserStatsCache) *Service {
	return &Service{swaps: swaps, cache: cache}
}

func (s *Service) Compute(ctx context.Context, userID int64) (model.UserStats, error) {
	if userID <= 0 {
		return model.UserStats{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.swaps == nil {
		return model.UserStats{}, fmt.Errorf("swap store is nil")
	}

	requests, err := s.swaps.ListForUser(ctx, userID)
	if err != nil {
		return model.UserStats{}, fmt.Errorf("list swap requests: %w", err)
	}

	return Aggregate(userID, requests), nil
}

// Refresh recomputes the stats and writes the denormalized rating and
// completed-swaps cache on the user row.
func (s *Service) Refresh(ctx context.Context, userID int64) (model.UserStats, error) {
	stats, err := s.Compute(ctx, userID)
	if err != nil {
		return model.UserStats{}, err
	}

	if s.cache != nil {
		if err := s.cache.UpdateRatingStats(ctx, userID, stats.AverageRating, stats.CompletedSwaps); err != nil {
			return model.UserStats{}, fmt.Errorf("refresh stats cache: %w", err)
		}
	}

	return stats, nil
}

// Aggregate folds a user's swap requests into a stats snapshot.
//
// A rating counts toward the user's average when the counterparty left it:
// on requests the user sent that is the receiver's slot, on requests the
// user received it is the sender's slot. The accepted counter and the
// acceptance rate cover received requests only, since they describe how the
// user responds to incoming offers.
func Aggregate(userID int64, requests []*model.SwapRequest) model.UserStats {
	var stats model.UserStats
	var ratingSum int

	for _, req := range requests {
		if req == nil || !req.IsParty(userID) {
			continue
		}

		sent := req.SenderID == userID
		if sent {
			stats.TotalRequestsSent++
		} else {
			stats.TotalRequestsReceived++
		}

		switch req.Status {
		case enums.SwapStatusAccepted:
			if !sent {
				stats.TotalRequestsAccepted++
			}
		case enums.SwapStatusCompleted:
			if !sent {
				stats.TotalRequestsAccepted++
			}
			stats.CompletedSwaps++
		}

		if req.RatingBy(userID) != nil {
			stats.FeedbackGiven++
		}

		var received *model.Rating
		if sent {
			received = req.ReceiverRating
		} else {
			received = req.SenderRating
		}
		if received != nil {
			stats.TotalRatings++
			ratingSum += received.Value
		}
	}

	if stats.TotalRatings > 0 {
		stats.AverageRating = rules.RoundRating(float64(ratingSum) / float64(stats.TotalRatings))
	} else {
		stats.AverageRating = defaultAverageRating
	}

	if stats.TotalRequestsReceived > 0 {
		stats.AcceptanceRate = int(float64(stats.TotalRequestsAccepted)/float64(stats.TotalRequestsReceived)*100 + 0.5)
	}

	return stats
}
