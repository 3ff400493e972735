package dto

import "github.com/ashoka0402/Skillswapv6/internal/domain/model"

type BanRequest struct {
	Reason string `json:"reason"`
}

type AdminActionResponse struct {
	OK bool `json:"ok"`
}

type AdminUsersResponse struct {
	Users []model.User `json:"users"`
}
