package rules

import "github.com/ashoka0402/Skillswapv6/internal/domain/model"

const (
	BadgeFirstSwap       = "first_swap"
	BadgeFiveSwaps       = "five_swaps"
	BadgeTenSwaps        = "ten_swaps"
	BadgeTopRated        = "top_rated"
	BadgeHelpfulReviewer = "helpful_reviewer"
	BadgeProfileComplete = "profile_complete"
	BadgeSkillTeacher    = "skill_teacher"
	BadgeEarlyAdopter    = "early_adopter"
)

// XP awarded for engagement milestones.
const (
	XPProfileComplete  = 50
	XPFirstSwapRequest = 25
	XPSwapAccepted     = 100
	XPSwapCompleted    = 200
	XPFeedbackGiven    = 50
	XPFeedbackReceived = 25
	XPSkillAdded       = 10
	XPPhotoUploaded    = 25
)

var badgeCatalog = []model.Badge{
	{ID: BadgeFirstSwap, Name: "First Swap", Description: "Completed your first skill swap", Icon: "🎯", Requirement: "Complete 1 swap", XPReward: 100},
	{ID: BadgeFiveSwaps, Name: "Skill Exchanger", Description: "Completed 5 skill swaps", Icon: "🔄", Requirement: "Complete 5 swaps", XPReward: 250},
	{ID: BadgeTenSwaps, Name: "Swap Master", Description: "Completed 10 skill swaps", Icon: "🏆", Requirement: "Complete 10 swaps", XPReward: 500},
	{ID: BadgeTopRated, Name: "Top Rated", Description: "Maintain a 4.5+ star rating", Icon: "⭐", Requirement: "4.5+ rating with 5+ reviews", XPReward: 300},
	{ID: BadgeHelpfulReviewer, Name: "Helpful Reviewer", Description: "Given 10 helpful reviews", Icon: "📝", Requirement: "Give 10 reviews", XPReward: 200},
	{ID: BadgeProfileComplete, Name: "Profile Pro", Description: "100% profile completion", Icon: "✨", Requirement: "Complete all profile fields", XPReward: 150},
	{ID: BadgeSkillTeacher, Name: "Skill Teacher", Description: "Taught 5 different skills", Icon: "👨‍🏫", Requirement: "Teach 5 different skills", XPReward: 400},
	{ID: BadgeEarlyAdopter, Name: "Early Adopter", Description: "One of the first 100 users", Icon: "🚀", Requirement: "Join early", XPReward: 500},
}

func BadgeCatalog() []model.Badge {
	out := make([]model.Badge, len(badgeCatalog))
	copy(out, badgeCatalog)
	return out
}

func BadgeByID(id string) (model.Badge, bool) {
	for _, b := range badgeCatalog {
		if b.ID == id {
			return b, true
		}
	}
	return model.Badge{}, false
}

type EligibilityInput struct {
	Rating              float64
	RatingsReceived     int
	SwapsCompleted      int
	FeedbackGiven       int
	ProfileCompleteness int
	SkillsOffered       int
	UserNumber          int64
	HeldBadges          []string
}

// EligibleBadges detects badges the user qualifies for but does not hold yet.
// Detection only: persisting the grant and applying the XP reward is the
// caller's job.
func EligibleBadges(in EligibilityInput) []string {
	held := make(map[string]bool, len(in.HeldBadges))
	for _, id := range in.HeldBadges {
		held[id] = true
	}

	var newBadges []string
	add := func(id string, qualified bool) {
		if qualified && !held[id] {
			newBadges = append(newBadges, id)
		}
	}

	add(BadgeFirstSwap, in.SwapsCompleted >= 1)
	add(BadgeFiveSwaps, in.SwapsCompleted >= 5)
	add(BadgeTenSwaps, in.SwapsCompleted >= 10)
	// Gated on ratings received so the five-star starting average does not
	// qualify users nobody has rated yet.
	add(BadgeTopRated, in.Rating >= 4.5 && in.RatingsReceived >= 5)
	add(BadgeHelpfulReviewer, in.FeedbackGiven >= 10)
	add(BadgeProfileComplete, in.ProfileCompleteness >= 100)
	add(BadgeSkillTeacher, in.SkillsOffered >= 5)
	add(BadgeEarlyAdopter, in.UserNumber > 0 && in.UserNumber <= 100)

	return newBadges
}
