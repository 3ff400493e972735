package rules

import "testing"

func TestProfileCompletenessWeights(t *testing.T) {
	full := CompletenessInput{
		Name:          "Alice",
		Bio:           "I teach guitar",
		Location:      "Berlin",
		HasPhoto:      true,
		SkillsOffered: []string{"Guitar"},
		SkillsWanted:  []string{"Chess"},
	}
	if got := ProfileCompleteness(full); got != 100 {
		t.Fatalf("full profile completeness: got %d want 100", got)
	}

	if got := ProfileCompleteness(CompletenessInput{}); got != 0 {
		t.Fatalf("empty profile completeness: got %d want 0", got)
	}

	blank := full
	blank.Bio = "   "
	if got := ProfileCompleteness(blank); got != 100-WeightBio {
		t.Fatalf("whitespace bio should not count: got %d want %d", got, 100-WeightBio)
	}

	noSkills := full
	noSkills.SkillsOffered = nil
	if got := ProfileCompleteness(noSkills); got != 100-WeightSkillsOffered {
		t.Fatalf("empty offered list should not count: got %d want %d", got, 100-WeightSkillsOffered)
	}
}

func TestLevelCurve(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{899, 3},
		{900, 4},
	}
	for _, tc := range cases {
		if got := Level(tc.xp); got != tc.want {
			t.Fatalf("Level(%d): got %d want %d", tc.xp, got, tc.want)
		}
	}

	prev := 0
	for xp := 0; xp <= 5000; xp += 50 {
		lvl := Level(xp)
		if lvl < prev {
			t.Fatalf("level decreased at xp=%d: %d -> %d", xp, prev, lvl)
		}
		if xp < XPForLevel(lvl-1) || xp >= XPForLevel(lvl) {
			t.Fatalf("xp=%d outside level %d bounds [%d,%d)", xp, lvl, XPForLevel(lvl-1), XPForLevel(lvl))
		}
		prev = lvl
	}
}

func TestRoundRatingHalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{4.25, 4.3},
		{4.24, 4.2},
		{4.15, 4.2},
		{5.0, 5.0},
		{17.0 / 4.0, 4.3},
	}
	for _, tc := range cases {
		if got := RoundRating(tc.in); got != tc.want {
			t.Fatalf("RoundRating(%v): got %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestEligibleBadges(t *testing.T) {
	in := EligibilityInput{
		Rating:              4.6,
		RatingsReceived:     5,
		SwapsCompleted:      5,
		FeedbackGiven:       5,
		ProfileCompleteness: 100,
		SkillsOffered:       2,
		UserNumber:          250,
	}
	got := EligibleBadges(in)
	want := map[string]bool{
		BadgeFirstSwap:       true,
		BadgeFiveSwaps:       true,
		BadgeTopRated:        true,
		BadgeProfileComplete: true,
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected badge set: %v", got)
	}
	for _, id := range got {
		if !want[id] {
			t.Fatalf("unexpected badge %q in %v", id, got)
		}
	}

	in.HeldBadges = got
	if again := EligibleBadges(in); len(again) != 0 {
		t.Fatalf("held badges must not requalify: %v", again)
	}
}

func TestTopRatedNeedsRealRatings(t *testing.T) {
	// A fresh user shows the 5.0 starting average but has never been rated.
	got := EligibleBadges(EligibilityInput{
		Rating:          5.0,
		RatingsReceived: 0,
		FeedbackGiven:   5,
	})
	for _, id := range got {
		if id == BadgeTopRated {
			t.Fatalf("top_rated must not qualify without received ratings: %v", got)
		}
	}
}
