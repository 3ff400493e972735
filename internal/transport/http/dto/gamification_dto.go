package dto

import (
	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
	"github.com/ashoka0402/Skillswapv6/internal/services/reputation"
)

type GamificationResponse struct {
	XP           int                    `json:"xp"`
	Level        int                    `json:"level"`
	NextLevelXP  int                    `json:"next_level_xp"`
	Completeness int                    `json:"profile_completeness"`
	Badges       []reputation.HeldBadge `json:"badges"`
}

type StatsResponse struct {
	Stats model.UserStats `json:"stats"`
}
