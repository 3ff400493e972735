package model

// UserStats is a derived snapshot computed by scanning a user's swap
// requests. It is a cache of values derivable from SwapRequest records and is
// never the source of truth for completion or rating facts.
type UserStats struct {
	CompletedSwaps        int     `json:"completed_swaps"`
	AverageRating         float64 `json:"average_rating"`
	TotalRatings          int     `json:"total_ratings"`
	FeedbackGiven         int     `json:"feedback_given"`
	AcceptanceRate        int     `json:"acceptance_rate"`
	TotalRequestsSent     int     `json:"total_requests_sent"`
	TotalRequestsReceived int     `json:"total_requests_received"`
	TotalRequestsAccepted int     `json:"total_requests_accepted"`
}
