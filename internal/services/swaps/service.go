package swaps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ashoka0402/Skillswapv6/internal/domain/enums"
	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
	"github.com/ashoka0402/Skillswapv6/internal/domain/rules"
	pgrepo "github.com/ashoka0402/Skillswapv6/internal/repo/postgres"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("swap request not found")
	ErrForbidden         = errors.New("not a party to this swap request")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDuplicateRequest  = errors.New("a live request between these users already exists")
	ErrAlreadyRated      = errors.New("rating slot already filled")
	ErrDependenciesNil   = errors.New("swaps dependencies are not configured")
)

const (
	maxMessageLen  = 500
	maxFeedbackLen = 500
)

// TooFastError carries the retry hint for a rate limited create.
type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type SwapStore interface {
	Create(ctx context.Context, req *model.SwapRequest) error
	GetByID(ctx context.Context, id int64) (*model.SwapRequest, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, from, to enums.SwapStatus, at time.Time) (bool, error)
	SetCompleted(ctx context.Context, tx pgx.Tx, id, userID int64, at time.Time) (bool, bool, error)
	Finish(ctx context.Context, tx pgx.Tx, id int64, at time.Time) (bool, error)
	SetRating(ctx context.Context, tx pgx.Tx, id, raterID int64, value int, feedback string, at time.Time) (bool, error)
	DeleteIfStatus(ctx context.Context, id int64, status enums.SwapStatus) (bool, error)
	ListForUser(ctx context.Context, userID int64) ([]*model.SwapRequest, error)
	CountBetween(ctx context.Context, a, b int64) (int, error)
}

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (model.User, error)
}

type Rewarder interface {
	AwardXP(ctx context.Context, userID int64, amount int) error
	EvaluateBadges(ctx context.Context, userID int64) ([]model.Badge, error)
}

type StatsRefresher interface {
	Compute(ctx context.Context, userID int64) (model.UserStats, error)
	Refresh(ctx context.Context, userID int64) (model.UserStats, error)
}

type Limiter interface {
	AllowSwapCreate(ctx context.Context, userID int64) (int64, bool, error)
}

// EventSink records analytics events. Best effort: recording never fails
// the calling flow.
type EventSink interface {
	Record(ctx context.Context, userID int64, name string, payload map[string]any)
}

// TxRunner runs fn inside a database transaction.
type TxRunner func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error

type CreateInput struct {
	ReceiverID    int64
	SenderSkill   string
	ReceiverSkill string
	Message       string
}

type Service struct {
	swaps   SwapStore
	users   UserStore
	rewards Rewarder
	stats   StatsRefresher
	limiter Limiter
	events  EventSink
	runTx   TxRunner
	now     func() time.Time
}

type Dependencies struct {
	Swaps   SwapStore
	Users   UserStore
	Rewards Rewarder
	Stats   StatsRefresher
	Limiter Limiter
	Events  EventSink
	RunTx   TxRunner
}

func NewService(deps Dependencies) *Service {
	return &Service{
		swaps:   deps.Swaps,
		users:   deps.Users,
		rewards: deps.Rewards,
		stats:   deps.Stats,
		limiter: deps.Limiter,
		events:  deps.Events,
		runTx:   deps.RunTx,
		now:     time.Now,
	}
}

// Create opens a pending request. The sender must actually offer the skill
// they promise and the receiver must offer the skill being asked for; at
// most one live request may exist per user pair.
func (s *Service) Create(ctx context.Context, senderID int64, in CreateInput) (*model.SwapRequest, error) {
	if s.swaps == nil || s.users == nil {
		return nil, ErrDependenciesNil
	}
	if senderID <= 0 || in.ReceiverID <= 0 {
		return nil, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if senderID == in.ReceiverID {
		return nil, fmt.Errorf("cannot request a swap with yourself: %w", ErrValidation)
	}

	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, fmt.Errorf("message is required: %w", ErrValidation)
	}
	if len(message) > maxMessageLen {
		return nil, fmt.Errorf("message is too long: %w", ErrValidation)
	}

	if s.limiter != nil {
		retryAfter, allowed, err := s.limiter.AllowSwapCreate(ctx, senderID)
		if err != nil {
			return nil, fmt.Errorf("rate limit check: %w", err)
		}
		if !allowed {
			return nil, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("get sender: %w", err)
	}
	receiver, err := s.users.GetByID(ctx, in.ReceiverID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return nil, fmt.Errorf("receiver: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get receiver: %w", err)
	}
	if receiver.IsBanned {
		return nil, fmt.Errorf("receiver: %w", ErrNotFound)
	}

	senderSkill, ok := matchSkill(sender.SkillsOffered, in.SenderSkill)
	if !ok {
		return nil, fmt.Errorf("sender does not offer %q: %w", in.SenderSkill, ErrValidation)
	}
	receiverSkill, ok := matchSkill(receiver.SkillsOffered, in.ReceiverSkill)
	if !ok {
		return nil, fmt.Errorf("receiver does not offer %q: %w", in.ReceiverSkill, ErrValidation)
	}

	live, err := s.swaps.CountBetween(ctx, senderID, in.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("count live requests: %w", err)
	}
	if live > 0 {
		return nil, ErrDuplicateRequest
	}

	firstRequest := false
	if s.stats != nil {
		preStats, err := s.stats.Compute(ctx, senderID)
		if err != nil {
			return nil, fmt.Errorf("compute sender stats: %w", err)
		}
		firstRequest = preStats.TotalRequestsSent == 0
	}

	req := &model.SwapRequest{
		SenderID:      senderID,
		ReceiverID:    in.ReceiverID,
		SenderSkill:   senderSkill,
		ReceiverSkill: receiverSkill,
		Message:       message,
		Status:        enums.SwapStatusPending,
	}
	if err := s.swaps.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create swap request: %w", err)
	}

	if firstRequest && s.rewards != nil {
		if err := s.rewards.AwardXP(ctx, senderID, rules.XPFirstSwapRequest); err != nil {
			return nil, fmt.Errorf("award first request xp: %w", err)
		}
	}

	s.record(ctx, senderID, "swap_request_created", map[string]any{
		"request_id":  req.ID,
		"receiver_id": in.ReceiverID,
	})

	return req, nil
}

// Accept moves a pending request to accepted. Receiver only.
func (s *Service) Accept(ctx context.Context, userID, requestID int64) (*model.SwapRequest, error) {
	req, err := s.transition(ctx, userID, requestID, enums.SwapStatusPending, enums.SwapStatusAccepted, receiverOnly)
	if err != nil {
		return nil, err
	}

	if s.rewards != nil {
		if err := s.rewards.AwardXP(ctx, userID, rules.XPSwapAccepted); err != nil {
			return nil, fmt.Errorf("award accept xp: %w", err)
		}
	}

	s.record(ctx, userID, "swap_request_accepted", map[string]any{"request_id": requestID})

	return req, nil
}

// Reject moves a pending request to rejected. Receiver only.
func (s *Service) Reject(ctx context.Context, userID, requestID int64) (*model.SwapRequest, error) {
	req, err := s.transition(ctx, userID, requestID, enums.SwapStatusPending, enums.SwapStatusRejected, receiverOnly)
	if err != nil {
		return nil, err
	}

	s.record(ctx, userID, "swap_request_rejected", map[string]any{"request_id": requestID})

	return req, nil
}

// Cancel deletes a request while it can still be withdrawn. Either party may
// remove it in the pending or rejected status; once accepted the request is
// a commitment and stays on record.
func (s *Service) Cancel(ctx context.Context, userID, requestID int64) error {
	if s.swaps == nil {
		return ErrDependenciesNil
	}
	if userID <= 0 || requestID <= 0 {
		return fmt.Errorf("invalid cancel payload: %w", ErrValidation)
	}

	req, err := s.getOwned(ctx, requestID)
	if err != nil {
		return err
	}
	if !req.IsParty(userID) {
		return ErrForbidden
	}
	if req.Status != enums.SwapStatusPending && req.Status != enums.SwapStatusRejected {
		return ErrForbidden
	}

	deleted, err := s.swaps.DeleteIfStatus(ctx, requestID, req.Status)
	if err != nil {
		return fmt.Errorf("delete swap request: %w", err)
	}
	if !deleted {
		// The request raced into another status between the read and the
		// conditional delete. Re-diagnose against a fresh read.
		if err := s.diagnoseStale(ctx, requestID); !errors.Is(err, ErrInvalidTransition) {
			return err
		}
		return ErrForbidden
	}

	s.record(ctx, userID, "swap_request_cancelled", map[string]any{"request_id": requestID})

	return nil
}

// MarkComplete records one party's completion vote on an accepted request.
// When the second vote lands the request moves to completed and both
// parties collect the completion reward. Repeating a vote is a no-op.
func (s *Service) MarkComplete(ctx context.Context, userID, requestID int64) (*model.SwapRequest, error) {
	if s.swaps == nil || s.runTx == nil {
		return nil, ErrDependenciesNil
	}
	if userID <= 0 || requestID <= 0 {
		return nil, fmt.Errorf("invalid completion payload: %w", ErrValidation)
	}

	req, err := s.getOwned(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.IsParty(userID) {
		return nil, ErrForbidden
	}
	if req.Status != enums.SwapStatusAccepted {
		return nil, ErrInvalidTransition
	}

	finished := false
	at := s.now().UTC()
	err = s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		senderDone, receiverDone, err := s.swaps.SetCompleted(ctx, tx, requestID, userID, at)
		if err != nil {
			if errors.Is(err, pgrepo.ErrSwapNotFound) {
				return ErrInvalidTransition
			}
			return err
		}
		if senderDone && receiverDone {
			finished, err = s.swaps.Finish(ctx, tx, requestID, at)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("mark swap complete: %w", err)
	}

	if finished {
		if err := s.settleCompletion(ctx, req.SenderID, req.ReceiverID); err != nil {
			return nil, err
		}
		s.record(ctx, userID, "swap_completed", map[string]any{"request_id": requestID})
	}

	return s.swaps.GetByID(ctx, requestID)
}

// Rate fills the caller's rating slot on a completed request. Each slot is
// write-once.
func (s *Service) Rate(ctx context.Context, userID, requestID int64, value int, feedback string) (*model.SwapRequest, error) {
	if s.swaps == nil || s.runTx == nil {
		return nil, ErrDependenciesNil
	}
	if userID <= 0 || requestID <= 0 {
		return nil, fmt.Errorf("invalid rating payload: %w", ErrValidation)
	}
	if value < 1 || value > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", ErrValidation)
	}
	feedback = strings.TrimSpace(feedback)
	if len(feedback) > maxFeedbackLen {
		return nil, fmt.Errorf("feedback is too long: %w", ErrValidation)
	}

	req, err := s.getOwned(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.IsParty(userID) {
		return nil, ErrForbidden
	}
	if req.Status != enums.SwapStatusCompleted {
		return nil, ErrInvalidTransition
	}

	at := s.now().UTC()
	var wrote bool
	err = s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		wrote, err = s.swaps.SetRating(ctx, tx, requestID, userID, value, feedback, at)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("set rating: %w", err)
	}
	if !wrote {
		return nil, ErrAlreadyRated
	}

	counterparty := req.SenderID
	if userID == req.SenderID {
		counterparty = req.ReceiverID
	}

	if s.rewards != nil {
		if err := s.rewards.AwardXP(ctx, userID, rules.XPFeedbackGiven); err != nil {
			return nil, fmt.Errorf("award feedback xp: %w", err)
		}
		if err := s.rewards.AwardXP(ctx, counterparty, rules.XPFeedbackReceived); err != nil {
			return nil, fmt.Errorf("award received xp: %w", err)
		}
	}
	if s.stats != nil {
		if _, err := s.stats.Refresh(ctx, userID); err != nil {
			return nil, err
		}
		if _, err := s.stats.Refresh(ctx, counterparty); err != nil {
			return nil, err
		}
	}
	if s.rewards != nil {
		if _, err := s.rewards.EvaluateBadges(ctx, userID); err != nil {
			return nil, err
		}
		if _, err := s.rewards.EvaluateBadges(ctx, counterparty); err != nil {
			return nil, err
		}
	}

	s.record(ctx, userID, "swap_rated", map[string]any{
		"request_id": requestID,
		"value":      value,
	})

	return s.swaps.GetByID(ctx, requestID)
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]*model.SwapRequest, error) {
	if s.swaps == nil {
		return nil, ErrDependenciesNil
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id: %w", ErrValidation)
	}

	requests, err := s.swaps.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}

	return requests, nil
}

// Get returns a request visible to userID, who must be a party to it.
func (s *Service) Get(ctx context.Context, userID, requestID int64) (*model.SwapRequest, error) {
	req, err := s.getOwned(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.IsParty(userID) {
		return nil, ErrForbidden
	}

	return req, nil
}

type partyRule int

const (
	receiverOnly partyRule = iota
	senderOnly
)

func (s *Service) transition(
	ctx context.Context,
	userID, requestID int64,
	from, to enums.SwapStatus,
	rule partyRule,
) (*model.SwapRequest, error) {
	if s.swaps == nil || s.runTx == nil {
		return nil, ErrDependenciesNil
	}
	if userID <= 0 || requestID <= 0 {
		return nil, fmt.Errorf("invalid transition payload: %w", ErrValidation)
	}

	req, err := s.getOwned(ctx, requestID)
	if err != nil {
		return nil, err
	}
	switch rule {
	case receiverOnly:
		if req.ReceiverID != userID {
			return nil, ErrForbidden
		}
	case senderOnly:
		if req.SenderID != userID {
			return nil, ErrForbidden
		}
	}

	at := s.now().UTC()
	var changed bool
	err = s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		changed, err = s.swaps.UpdateStatus(ctx, tx, requestID, from, to, at)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update swap status: %w", err)
	}
	if !changed {
		return nil, s.diagnoseStale(ctx, requestID)
	}

	return s.swaps.GetByID(ctx, requestID)
}

// diagnoseStale tells a vanished request apart from one that raced into
// another status.
func (s *Service) diagnoseStale(ctx context.Context, requestID int64) error {
	if _, err := s.swaps.GetByID(ctx, requestID); err != nil {
		if errors.Is(err, pgrepo.ErrSwapNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("reread swap request: %w", err)
	}

	return ErrInvalidTransition
}

func (s *Service) getOwned(ctx context.Context, requestID int64) (*model.SwapRequest, error) {
	req, err := s.swaps.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrSwapNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get swap request: %w", err)
	}

	return req, nil
}

// settleCompletion pays both parties and refreshes their cached stats and
// badges after the joint completion lands.
func (s *Service) settleCompletion(ctx context.Context, senderID, receiverID int64) error {
	for _, userID := range []int64{senderID, receiverID} {
		if s.rewards != nil {
			if err := s.rewards.AwardXP(ctx, userID, rules.XPSwapCompleted); err != nil {
				return fmt.Errorf("award completion xp: %w", err)
			}
		}
		if s.stats != nil {
			if _, err := s.stats.Refresh(ctx, userID); err != nil {
				return err
			}
		}
		if s.rewards != nil {
			if _, err := s.rewards.EvaluateBadges(ctx, userID); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Service) record(ctx context.Context, userID int64, name string, payload map[string]any) {
	if s.events == nil {
		return
	}
	s.events.Record(ctx, userID, name, payload)
}

func matchSkill(offered []string, skill string) (string, bool) {
	skill = strings.Join(strings.Fields(skill), " ")
	if skill == "" {
		return "", false
	}
	for _, candidate := range offered {
		if strings.EqualFold(candidate, skill) {
			return candidate, true
		}
	}
	return "", false
}
