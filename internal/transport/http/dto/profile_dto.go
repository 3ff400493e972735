package dto

import "github.com/ashoka0402/Skillswapv6/internal/domain/model"

type UpdateProfileRequest struct {
	Name         string `json:"name"`
	Bio          string `json:"bio"`
	Location     string `json:"location"`
	Availability string `json:"availability"`
	IsPublic     bool   `json:"is_public"`
}

type SkillRequest struct {
	Skill string `json:"skill"`
}

type ProfileResponse struct {
	User         model.User `json:"user"`
	Completeness int        `json:"profile_completeness"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
}

type BrowseResponse struct {
	Users  []ProfileResponse `json:"users"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}
