package dto

import "github.com/ashoka0402/Skillswapv6/internal/domain/model"

type EventInput struct {
	Name  string         `json:"name"`
	TS    int64          `json:"ts"`
	Props map[string]any `json:"props"`
}

type EventsBatchRequest struct {
	Events []EventInput `json:"events"`
}

type EventsBatchResponse struct {
	Accepted int `json:"accepted"`
}

type EventsListResponse struct {
	Events []*model.Event `json:"events"`
}
