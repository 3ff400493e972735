package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
)

type Report struct {
	Filename string
	Content  string
}

// UsersReport renders the downloadable user activity summary.
func (s *Service) UsersReport(ctx context.Context) (Report, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return Report{}, err
	}

	sortUsersByID(users)

	var active, banned, public int
	for _, u := range users {
		if u.IsBanned {
			banned++
		} else {
			active++
		}
		if u.IsPublic {
			public++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User Activity Report\nGenerated: %s\n\n", s.reportTime())
	fmt.Fprintf(&b, "Total Users: %d\n", len(users))
	fmt.Fprintf(&b, "Active Users: %d\n", active)
	fmt.Fprintf(&b, "Banned Users: %d\n", banned)
	fmt.Fprintf(&b, "Public Profiles: %d\n\n", public)
	b.WriteString("User Details:\n")
	for _, u := range users {
		state := "Active"
		if u.IsBanned {
			state = "BANNED"
		}
		fmt.Fprintf(&b, "%s (%s) - %s - Skills: %d offered, %d wanted\n",
			u.Name, u.Email, state, len(u.SkillsOffered), len(u.SkillsWanted))
	}

	return Report{Filename: "users-report.txt", Content: b.String()}, nil
}

// SwapsReport renders the downloadable swap request summary.
func (s *Service) SwapsReport(ctx context.Context) (Report, error) {
	requests, err := s.swaps.ListAll(ctx, listUsersLimit, 0)
	if err != nil {
		return Report{}, fmt.Errorf("list swap requests: %w", err)
	}
	names, err := s.userNames(ctx)
	if err != nil {
		return Report{}, err
	}

	var pending, accepted, rejected int
	for _, r := range requests {
		switch r.Status {
		case "pending":
			pending++
		case "accepted":
			accepted++
		case "rejected":
			rejected++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Swap Requests Report\nGenerated: %s\n\n", s.reportTime())
	fmt.Fprintf(&b, "Total Requests: %d\n", len(requests))
	fmt.Fprintf(&b, "Pending: %d\n", pending)
	fmt.Fprintf(&b, "Accepted: %d\n", accepted)
	fmt.Fprintf(&b, "Rejected: %d\n\n", rejected)
	b.WriteString("Request Details:\n")
	for _, r := range requests {
		fmt.Fprintf(&b, "%s → %s: %s ↔ %s (%s) - %s\n",
			names[r.SenderID], names[r.ReceiverID],
			r.SenderSkill, r.ReceiverSkill, r.Status,
			r.CreatedAt.Format("2006-01-02"))
	}

	return Report{Filename: "swaps-report.txt", Content: b.String()}, nil
}

// FeedbackReport renders the downloadable review summary. Both rating slots
// of every request count as separate reviews.
func (s *Service) FeedbackReport(ctx context.Context) (Report, error) {
	requests, err := s.swaps.ListAll(ctx, listUsersLimit, 0)
	if err != nil {
		return Report{}, fmt.Errorf("list swap requests: %w", err)
	}
	names, err := s.userNames(ctx)
	if err != nil {
		return Report{}, err
	}

	type review struct {
		rating   *model.Rating
		from, to int64
	}
	var reviews []review
	for _, r := range requests {
		if r.SenderRating != nil {
			reviews = append(reviews, review{rating: r.SenderRating, from: r.SenderID, to: r.ReceiverID})
		}
		if r.ReceiverRating != nil {
			reviews = append(reviews, review{rating: r.ReceiverRating, from: r.ReceiverID, to: r.SenderID})
		}
	}

	sum := 0
	stars := map[int]int{}
	for _, rv := range reviews {
		sum += rv.rating.Value
		stars[rv.rating.Value]++
	}
	avg := "0.0"
	if len(reviews) > 0 {
		avg = fmt.Sprintf("%.1f", float64(sum)/float64(len(reviews)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Feedback Report\nGenerated: %s\n\n", s.reportTime())
	fmt.Fprintf(&b, "Total Reviews: %d\n", len(reviews))
	fmt.Fprintf(&b, "Average Rating: %s\n", avg)
	for star := 5; star >= 1; star-- {
		fmt.Fprintf(&b, "%d-Star Reviews: %d\n", star, stars[star])
	}
	b.WriteString("\nFeedback Details:\n")
	for _, rv := range reviews {
		feedback := rv.rating.Feedback
		if feedback == "" {
			feedback = "No feedback"
		}
		fmt.Fprintf(&b, "%d/5 - %q - %s → %s\n",
			rv.rating.Value, feedback, names[rv.from], names[rv.to])
	}

	return Report{Filename: "feedback-report.txt", Content: b.String()}, nil
}

func (s *Service) userNames(ctx context.Context) (map[int64]string, error) {
	users, err := s.users.ListAll(ctx, listUsersLimit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}

func (s *Service) reportTime() string {
	return s.now().UTC().Format(time.RFC1123)
}

// sortUsersByID keeps report line order stable across runs.
func sortUsersByID(users []model.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
}
