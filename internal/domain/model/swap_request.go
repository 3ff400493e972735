package model

import (
	"time"

	"github.com/ashoka0402/Skillswapv6/internal/domain/enums"
)

// Rating is the feedback one party leaves about the other after a completed
// swap. Each party owns exactly one slot on the request and may fill it once.
type Rating struct {
	Value    int       `json:"value"`
	Feedback string    `json:"feedback"`
	RatedAt  time.Time `json:"rated_at"`
}

type SwapRequest struct {
	ID                  int64            `json:"id"`
	SenderID            int64            `json:"sender_id"`
	ReceiverID          int64            `json:"receiver_id"`
	SenderSkill         string           `json:"sender_skill"`
	ReceiverSkill       string           `json:"receiver_skill"`
	Message             string           `json:"message"`
	Status              enums.SwapStatus `json:"status"`
	SenderCompleted     bool             `json:"sender_completed"`
	ReceiverCompleted   bool             `json:"receiver_completed"`
	SenderCompletedAt   *time.Time       `json:"sender_completed_at,omitempty"`
	ReceiverCompletedAt *time.Time       `json:"receiver_completed_at,omitempty"`
	SenderRating        *Rating          `json:"sender_rating,omitempty"`
	ReceiverRating      *Rating          `json:"receiver_rating,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	AcceptedAt          *time.Time       `json:"accepted_at,omitempty"`
	RejectedAt          *time.Time       `json:"rejected_at,omitempty"`
	CompletedAt         *time.Time       `json:"completed_at,omitempty"`
}

func (r SwapRequest) IsParty(userID int64) bool {
	return userID == r.SenderID || userID == r.ReceiverID
}

// RatingBy returns the rating slot owned by userID, nil when unset or when
// userID is not a party.
func (r SwapRequest) RatingBy(userID int64) *Rating {
	switch userID {
	case r.SenderID:
		return r.SenderRating
	case r.ReceiverID:
		return r.ReceiverRating
	default:
		return nil
	}
}
