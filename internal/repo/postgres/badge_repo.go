package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
)

type BadgeRepo struct {
	pool *pgxpool.Pool
}

func NewBadgeRepo(pool *pgxpool.Pool) *BadgeRepo {
	return &BadgeRepo{pool: pool}
}

// Grant records a badge for a user. The insert is idempotent and reports
// whether this call actually granted the badge, so the caller awards the XP
// reward exactly once.
func (r *BadgeRepo) Grant(ctx context.Context, tx pgx.Tx, userID int64, badgeID string) (bool, error) {
	tag, err := tx.Exec(ctx, `
INSERT INTO user_badges (user_id, badge_id)
VALUES ($1, $2)
ON CONFLICT (user_id, badge_id) DO NOTHING
`, userID, badgeID)
	if err != nil {
		return false, fmt.Errorf("grant badge: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *BadgeRepo) ListForUser(ctx context.Context, userID int64) ([]model.GrantedBadge, error) {
	rows, err := r.pool.Query(ctx, `
SELECT badge_id, granted_at
FROM user_badges
WHERE user_id = $1
ORDER BY granted_at, badge_id
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user badges: %w", err)
	}
	defer rows.Close()

	var items []model.GrantedBadge
	for rows.Next() {
		var b model.GrantedBadge
		if err := rows.Scan(&b.BadgeID, &b.GrantedAt); err != nil {
			return nil, fmt.Errorf("scan user badge: %w", err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user badges: %w", err)
	}

	return items, nil
}
