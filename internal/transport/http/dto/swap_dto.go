package dto

import "github.com/ashoka0402/Skillswapv6/internal/domain/model"

type CreateSwapRequest struct {
	ReceiverID    int64  `json:"receiver_id"`
	SenderSkill   string `json:"sender_skill"`
	ReceiverSkill string `json:"receiver_skill"`
	Message       string `json:"message"`
}

type RateSwapRequest struct {
	Value    int    `json:"value"`
	Feedback string `json:"feedback"`
}

type SwapResponse struct {
	Request *model.SwapRequest `json:"request"`
}

type SwapListResponse struct {
	Requests []*model.SwapRequest `json:"requests"`
}

type SwapDeletedResponse struct {
	OK bool `json:"ok"`
}
