package handlers

import (
	"net/http"

	authsvc "github.com/ashoka0402/Skillswapv6/internal/services/auth"
	reputationsvc "github.com/ashoka0402/Skillswapv6/internal/services/reputation"
	statssvc "github.com/ashoka0402/Skillswapv6/internal/services/stats"
	"github.com/ashoka0402/Skillswapv6/internal/transport/http/dto"
	httperrors "github.com/ashoka0402/Skillswapv6/internal/transport/http/errors"
)

type GamificationHandler struct {
	reputation *reputationsvc.Service
	stats      *statssvc.Service
}

func NewGamificationHandler(reputation *reputationsvc.Service, stats *statssvc.Service) *GamificationHandler {
	return &GamificationHandler{reputation: reputation, stats: stats}
}

func (h *GamificationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.reputation == nil {
		writeInternal(w, "REPUTATION_SERVICE_UNAVAILABLE", "reputation service is unavailable")
		return
	}

	summary, err := h.reputation.Summary(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load gamification summary")
		return
	}

	badges := summary.Badges
	if badges == nil {
		badges = []reputationsvc.HeldBadge{}
	}

	httperrors.Write(w, http.StatusOK, dto.GamificationResponse{
		XP:           summary.XP,
		Level:        summary.Level,
		NextLevelXP:  summary.NextLevelXP,
		Completeness: summary.Completeness,
		Badges:       badges,
	})
}

func (h *GamificationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.stats == nil {
		writeInternal(w, "STATS_SERVICE_UNAVAILABLE", "stats service is unavailable")
		return
	}

	stats, err := h.stats.Compute(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to compute stats")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.StatsResponse{Stats: stats})
}
