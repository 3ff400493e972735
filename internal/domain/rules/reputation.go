package rules

import (
	"math"
	"strings"
)

// Profile-completeness weights. They sum to 100; a field contributes its
// weight only when populated (text fields non-blank after trimming, list
// fields non-empty).
const (
	WeightName          = 15
	WeightBio           = 20
	WeightLocation      = 10
	WeightPhoto         = 15
	WeightSkillsOffered = 20
	WeightSkillsWanted  = 20
)

type CompletenessInput struct {
	Name          string
	Bio           string
	Location      string
	HasPhoto      bool
	SkillsOffered []string
	SkillsWanted  []string
}

func ProfileCompleteness(in CompletenessInput) int {
	score := 0
	if strings.TrimSpace(in.Name) != "" {
		score += WeightName
	}
	if strings.TrimSpace(in.Bio) != "" {
		score += WeightBio
	}
	if strings.TrimSpace(in.Location) != "" {
		score += WeightLocation
	}
	if in.HasPhoto {
		score += WeightPhoto
	}
	if len(in.SkillsOffered) > 0 {
		score += WeightSkillsOffered
	}
	if len(in.SkillsWanted) > 0 {
		score += WeightSkillsWanted
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Level derives the engagement tier from accumulated XP:
// level = floor(sqrt(xp/100)) + 1.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
}

// XPForLevel is the inverse of Level: the XP at which the given level is
// reached. Progress within level L spans [XPForLevel(L-1), XPForLevel(L)).
func XPForLevel(level int) int {
	if level < 0 {
		return 0
	}
	return level * level * 100
}

// RoundRating rounds an average rating to one decimal place, half up, so
// 4.25 becomes 4.3. Kept as the single rounding rule for every displayed or
// persisted average.
func RoundRating(value float64) float64 {
	return math.Floor(value*10+0.5) / 10
}
