package model

import (
	"time"

	"github.com/ashoka0402/Skillswapv6/internal/domain/enums"
)

type User struct {
	ID             int64              `json:"id"`
	Email          string             `json:"email"`
	Name           string             `json:"name"`
	Bio            string             `json:"bio"`
	Location       string             `json:"location"`
	AvatarKey      string             `json:"-"`
	SkillsOffered  []string           `json:"skills_offered"`
	SkillsWanted   []string           `json:"skills_wanted"`
	Availability   enums.Availability `json:"availability"`
	IsPublic       bool               `json:"is_public"`
	Rating         float64            `json:"rating"`
	CompletedSwaps int                `json:"completed_swaps"`
	XP             int                `json:"xp"`
	IsAdmin        bool               `json:"is_admin"`
	IsBanned       bool               `json:"is_banned"`
	BanReason      string             `json:"ban_reason,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
