package dto

import "github.com/ashoka0402/Skillswapv6/internal/domain/model"

type PublishAnnouncementRequest struct {
	Message  string `json:"message"`
	Type     string `json:"type"`
	Priority string `json:"priority"`
}

type SetAnnouncementActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type AnnouncementResponse struct {
	Announcement *model.Announcement `json:"announcement"`
}

type AnnouncementListResponse struct {
	Announcements []*model.Announcement `json:"announcements"`
}
