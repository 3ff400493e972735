package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashoka0402/Skillswapv6/internal/domain/enums"
	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
)

var (
	ErrSwapNotFound = errors.New("swap request not found")
)

type SwapRepo struct {
	pool *pgxpool.Pool
}

func NewSwapRepo(pool *pgxpool.Pool) *SwapRepo {
	return &SwapRepo{pool: pool}
}

const swapColumns = `
	id,
	sender_id,
	receiver_id,
	sender_skill,
	receiver_skill,
	message,
	status,
	sender_completed,
	receiver_completed,
	sender_completed_at,
	receiver_completed_at,
	sender_rating_value,
	sender_rating_feedback,
	sender_rated_at,
	receiver_rating_value,
	receiver_rating_feedback,
	receiver_rated_at,
	created_at,
	accepted_at,
	rejected_at,
	completed_at`

func (r *SwapRepo) Create(ctx context.Context, req *model.SwapRequest) error {
	err := r.pool.QueryRow(ctx, `
INSERT INTO swap_requests (
	sender_id,
	receiver_id,
	sender_skill,
	receiver_skill,
	message,
	status
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at
`, req.SenderID, req.ReceiverID, req.SenderSkill, req.ReceiverSkill, req.Message, req.Status).
		Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert swap request: %w", err)
	}

	return nil
}

func (r *SwapRepo) GetByID(ctx context.Context, id int64) (*model.SwapRequest, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+swapColumns+` FROM swap_requests WHERE id = $1`, id)

	req, err := scanSwap(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSwapNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get swap request: %w", err)
	}

	return req, nil
}

// UpdateStatus moves a request from one status to another. It reports whether
// a row actually changed, so callers can tell a stale transition apart from a
// missing request by re-reading.
func (r *SwapRepo) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	id int64,
	from, to enums.SwapStatus,
	at time.Time,
) (bool, error) {
	tag, err := tx.Exec(ctx, `
UPDATE swap_requests SET
	status = $3,
	accepted_at = CASE WHEN $3 = 'accepted' THEN $4 ELSE accepted_at END,
	rejected_at = CASE WHEN $3 = 'rejected' THEN $4 ELSE rejected_at END
WHERE id = $1 AND status = $2
`, id, from, to, at)
	if err != nil {
		return false, fmt.Errorf("update swap status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// SetCompleted marks one party's completion flag on an accepted request and
// returns the resulting pair of flags. Calling it again for the same party is
// a no-op that still reports the current flags.
func (r *SwapRepo) SetCompleted(
	ctx context.Context,
	tx pgx.Tx,
	id, userID int64,
	at time.Time,
) (senderDone, receiverDone bool, err error) {
	err = tx.QueryRow(ctx, `
UPDATE swap_requests SET
	sender_completed = sender_completed OR sender_id = $2,
	receiver_completed = receiver_completed OR receiver_id = $2,
	sender_completed_at = CASE
		WHEN sender_id = $2 AND NOT sender_completed THEN $3
		ELSE sender_completed_at
	END,
	receiver_completed_at = CASE
		WHEN receiver_id = $2 AND NOT receiver_completed THEN $3
		ELSE receiver_completed_at
	END
WHERE id = $1 AND status = 'accepted'
RETURNING sender_completed, receiver_completed
`, id, userID, at).Scan(&senderDone, &receiverDone)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, false, ErrSwapNotFound
	}
	if err != nil {
		return false, false, fmt.Errorf("set swap completed: %w", err)
	}

	return senderDone, receiverDone, nil
}

// Finish moves an accepted request with both flags set to completed.
func (r *SwapRepo) Finish(ctx context.Context, tx pgx.Tx, id int64, at time.Time) (bool, error) {
	tag, err := tx.Exec(ctx, `
UPDATE swap_requests SET
	status = 'completed',
	completed_at = $2
WHERE id = $1 AND status = 'accepted' AND sender_completed AND receiver_completed
`, id, at)
	if err != nil {
		return false, fmt.Errorf("finish swap: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// SetRating writes the rater's slot on a completed request. The write only
// lands when the slot is still empty, which keeps each slot write-once.
func (r *SwapRepo) SetRating(
	ctx context.Context,
	tx pgx.Tx,
	id, raterID int64,
	value int,
	feedback string,
	at time.Time,
) (bool, error) {
	tag, err := tx.Exec(ctx, `
UPDATE swap_requests SET
	sender_rating_value = CASE WHEN sender_id = $2 THEN $3 ELSE sender_rating_value END,
	sender_rating_feedback = CASE WHEN sender_id = $2 THEN $4 ELSE sender_rating_feedback END,
	sender_rated_at = CASE WHEN sender_id = $2 THEN $5 ELSE sender_rated_at END,
	receiver_rating_value = CASE WHEN receiver_id = $2 THEN $3 ELSE receiver_rating_value END,
	receiver_rating_feedback = CASE WHEN receiver_id = $2 THEN $4 ELSE receiver_rating_feedback END,
	receiver_rated_at = CASE WHEN receiver_id = $2 THEN $5 ELSE receiver_rated_at END
WHERE id = $1
	AND status = 'completed'
	AND (
		(sender_id = $2 AND sender_rating_value IS NULL)
		OR (receiver_id = $2 AND receiver_rating_value IS NULL)
	)
`, id, raterID, value, feedback, at)
	if err != nil {
		return false, fmt.Errorf("set swap rating: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// DeleteIfStatus removes a request only while it is still in the given
// status. Used by the sender-cancel path, which is limited to pending.
func (r *SwapRepo) DeleteIfStatus(ctx context.Context, id int64, status enums.SwapStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM swap_requests WHERE id = $1 AND status = $2`, id, status)
	if err != nil {
		return false, fmt.Errorf("delete swap request: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Delete removes a request unconditionally. Admin surface only.
func (r *SwapRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM swap_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete swap request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSwapNotFound
	}

	return nil
}

// ListForUser returns every request the user participates in, newest first.
func (r *SwapRepo) ListForUser(ctx context.Context, userID int64) ([]*model.SwapRequest, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+swapColumns+`
FROM swap_requests
WHERE sender_id = $1 OR receiver_id = $1
ORDER BY created_at DESC, id DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}

	return collectSwaps(rows)
}

func (r *SwapRepo) ListAll(ctx context.Context, limit, offset int) ([]*model.SwapRequest, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+swapColumns+`
FROM swap_requests
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list all swap requests: %w", err)
	}

	return collectSwaps(rows)
}

// CountBetween counts live requests between two users in either direction.
// Live means pending or accepted.
func (r *SwapRepo) CountBetween(ctx context.Context, a, b int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM swap_requests
WHERE status IN ('pending', 'accepted')
	AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
`, a, b).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count swap requests: %w", err)
	}

	return n, nil
}

func scanSwap(row pgx.Row) (*model.SwapRequest, error) {
	var (
		req model.SwapRequest

		senderValue      *int
		senderFeedback   *string
		senderRatedAt    *time.Time
		receiverValue    *int
		receiverFeedback *string
		receiverRatedAt  *time.Time
	)

	err := row.Scan(
		&req.ID,
		&req.SenderID,
		&req.ReceiverID,
		&req.SenderSkill,
		&req.ReceiverSkill,
		&req.Message,
		&req.Status,
		&req.SenderCompleted,
		&req.ReceiverCompleted,
		&req.SenderCompletedAt,
		&req.ReceiverCompletedAt,
		&senderValue,
		&senderFeedback,
		&senderRatedAt,
		&receiverValue,
		&receiverFeedback,
		&receiverRatedAt,
		&req.CreatedAt,
		&req.AcceptedAt,
		&req.RejectedAt,
		&req.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if senderValue != nil && senderRatedAt != nil {
		req.SenderRating = &model.Rating{
			Value:   *senderValue,
			RatedAt: *senderRatedAt,
		}
		if senderFeedback != nil {
			req.SenderRating.Feedback = *senderFeedback
		}
	}
	if receiverValue != nil && receiverRatedAt != nil {
		req.ReceiverRating = &model.Rating{
			Value:   *receiverValue,
			RatedAt: *receiverRatedAt,
		}
		if receiverFeedback != nil {
			req.ReceiverRating.Feedback = *receiverFeedback
		}
	}

	return &req, nil
}

func collectSwaps(rows pgx.Rows) ([]*model.SwapRequest, error) {
	defer rows.Close()

	var items []*model.SwapRequest
	for rows.Next() {
		req, err := scanSwap(rows)
		if err != nil {
			return nil, fmt.Errorf("scan swap request: %w", err)
		}
		items = append(items, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap requests: %w", err)
	}

	return items, nil
}
