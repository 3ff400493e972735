package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

type AnnouncementRepo struct {
	pool *pgxpool.Pool
}

func NewAnnouncementRepo(pool *pgxpool.Pool) *AnnouncementRepo {
	return &AnnouncementRepo{pool: pool}
}

const announcementColumns = `id, message, type, priority, is_active, sent_by, sent_at`

func (r *AnnouncementRepo) Create(ctx context.Context, a *model.Announcement) error {
	err := r.pool.QueryRow(ctx, `
INSERT INTO announcements (message, type, priority, is_active, sent_by)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, sent_at
`, a.Message, a.Type, a.Priority, a.IsActive, a.SentBy).Scan(&a.ID, &a.SentAt)
	if err != nil {
		return fmt.Errorf("insert announcement: %w", err)
	}

	return nil
}

func (r *AnnouncementRepo) GetByID(ctx context.Context, id int64) (*model.Announcement, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id)

	a, err := scanAnnouncement(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAnnouncementNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get announcement: %w", err)
	}

	return a, nil
}

func (r *AnnouncementRepo) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE announcements SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set announcement active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAnnouncementNotFound
	}

	return nil
}

func (r *AnnouncementRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAnnouncementNotFound
	}

	return nil
}

// ListActive returns the announcements shown to users, most recent first.
func (r *AnnouncementRepo) ListActive(ctx context.Context) ([]*model.Announcement, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+announcementColumns+`
FROM announcements
WHERE is_active
ORDER BY sent_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list active announcements: %w", err)
	}

	return collectAnnouncements(rows)
}

func (r *AnnouncementRepo) ListAll(ctx context.Context) ([]*model.Announcement, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+announcementColumns+`
FROM announcements
ORDER BY sent_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}

	return collectAnnouncements(rows)
}

// DeactivateOlderThan retires announcements whose send time passed the
// retention window. Returns how many rows changed.
func (r *AnnouncementRepo) DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE announcements SET is_active = FALSE WHERE is_active AND sent_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deactivate stale announcements: %w", err)
	}

	return tag.RowsAffected(), nil
}

func scanAnnouncement(row pgx.Row) (*model.Announcement, error) {
	var a model.Announcement
	err := row.Scan(&a.ID, &a.Message, &a.Type, &a.Priority, &a.IsActive, &a.SentBy, &a.SentAt)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func collectAnnouncements(rows pgx.Rows) ([]*model.Announcement, error) {
	defer rows.Close()

	var items []*model.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate announcements: %w", err)
	}

	return items, nil
}
