package model

import (
	"time"

	"github.com/ashoka0402/Skillswapv6/internal/domain/enums"
)

type Announcement struct {
	ID       int64                      `json:"id"`
	Message  string                     `json:"message"`
	Type     enums.AnnouncementType     `json:"type"`
	Priority enums.AnnouncementPriority `json:"priority"`
	IsActive bool                       `json:"is_active"`
	SentBy   int64                      `json:"sent_by"`
	SentAt   time.Time                  `json:"sent_at"`
}
