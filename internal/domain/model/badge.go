package model

import "time"

type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Requirement string `json:"requirement"`
	XPReward    int    `json:"xp_reward"`
}

type GrantedBadge struct {
	BadgeID   string    `json:"badge_id"`
	GrantedAt time.Time `json:"granted_at"`
}
