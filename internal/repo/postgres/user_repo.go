package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashoka0402/Skillswapv6/internal/domain/enums"
	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrSkillNotListed = errors.New("skill not listed")
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

type BrowseFilter struct {
	Term         string
	Availability string
	ExcludeID    int64
	Limit        int
	Offset       int
}

const userColumns = `
	id,
	email,
	name,
	COALESCE(bio, ''),
	COALESCE(location, ''),
	COALESCE(avatar_key, ''),
	COALESCE(skills_offered, '{}'),
	COALESCE(skills_wanted, '{}'),
	availability,
	is_public,
	rating,
	completed_swaps,
	xp,
	is_admin,
	is_banned,
	COALESCE(ban_reason, ''),
	created_at,
	updated_at`

func (r *UserRepo) Create(ctx context.Context, email, passwordHash, name string) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO users (
	email,
	password_hash,
	name,
	skills_offered,
	skills_wanted,
	availability,
	is_public,
	rating,
	completed_swaps,
	xp,
	is_admin,
	is_banned,
	created_at,
	updated_at
) VALUES ($1, $2, $3, '{}', '{}', 'flexible', TRUE, 5.0, 0, 0, FALSE, FALSE, NOW(), NOW())
ON CONFLICT (email) DO NOTHING
RETURNING `+userColumns, strings.ToLower(strings.TrimSpace(email)), passwordHash, name)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (model.User, error) {
	if r.pool == nil {
		return model.User{}, ErrUserNotFound
	}
	if userID <= 0 {
		return model.User{}, fmt.Errorf("invalid user id")
	}

	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, string, error) {
	if r.pool == nil {
		return model.User{}, "", ErrUserNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+userColumns+`, password_hash
FROM users
WHERE email = $1
`, strings.ToLower(strings.TrimSpace(email)))

	var (
		user model.User
		hash string
	)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Bio,
		&user.Location,
		&user.AvatarKey,
		&user.SkillsOffered,
		&user.SkillsWanted,
		&user.Availability,
		&user.IsPublic,
		&user.Rating,
		&user.CompletedSwaps,
		&user.XP,
		&user.IsAdmin,
		&user.IsBanned,
		&user.BanReason,
		&user.CreatedAt,
		&user.UpdatedAt,
		&hash,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, "", ErrUserNotFound
		}
		return model.User{}, "", fmt.Errorf("get user by email: %w", err)
	}

	return user, hash, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, userID int64, name, bio, location string, availability enums.Availability, isPublic bool) error {
	if r.pool == nil {
		return nil
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE users SET
	name = $2,
	bio = $3,
	location = $4,
	availability = $5,
	is_public = $6,
	updated_at = NOW()
WHERE id = $1
`, userID, name, bio, location, string(availability), isPublic)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// AddSkill appends a label to the given skill set unless an exact
// case-sensitive match is already present. Returns whether the row changed.
func (r *UserRepo) AddSkill(ctx context.Context, userID int64, offered bool, skill string) (bool, error) {
	if r.pool == nil {
		return false, nil
	}
	if userID <= 0 || skill == "" {
		return false, fmt.Errorf("invalid skill payload")
	}

	column := skillColumn(offered)
	result, err := r.pool.Exec(ctx, fmt.Sprintf(`
UPDATE users SET
	%[1]s = array_append(COALESCE(%[1]s, '{}'), $2),
	updated_at = NOW()
WHERE id = $1 AND NOT ($2 = ANY(COALESCE(%[1]s, '{}')))
`, column), userID, skill)
	if err != nil {
		return false, fmt.Errorf("add skill: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *UserRepo) RemoveSkill(ctx context.Context, userID int64, offered bool, skill string) (bool, error) {
	if r.pool == nil {
		return false, nil
	}
	if userID <= 0 || skill == "" {
		return false, fmt.Errorf("invalid skill payload")
	}

	column := skillColumn(offered)
	result, err := r.pool.Exec(ctx, fmt.Sprintf(`
UPDATE users SET
	%[1]s = array_remove(COALESCE(%[1]s, '{}'), $2),
	updated_at = NOW()
WHERE id = $1 AND $2 = ANY(COALESCE(%[1]s, '{}'))
`, column), userID, skill)
	if err != nil {
		return false, fmt.Errorf("remove skill: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *UserRepo) SetAvatarKey(ctx context.Context, userID int64, key string) (string, error) {
	if r.pool == nil {
		return "", nil
	}
	if userID <= 0 {
		return "", fmt.Errorf("invalid user id")
	}

	var previous string
	err := r.pool.QueryRow(ctx, `
UPDATE users u SET
	avatar_key = $2,
	updated_at = NOW()
FROM (SELECT id, COALESCE(avatar_key, '') AS old_key FROM users WHERE id = $1 FOR UPDATE) prev
WHERE u.id = prev.id
RETURNING prev.old_key
`, userID, key).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("set avatar key: %w", err)
	}

	return previous, nil
}

// UpdateRatingStats writes the denormalized display cache maintained by the
// statistics aggregator. The cache is advisory and never authoritative.
func (r *UserRepo) UpdateRatingStats(ctx context.Context, userID int64, rating float64, completedSwaps int) error {
	if r.pool == nil {
		return nil
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE users SET
	rating = $2,
	completed_swaps = $3,
	last_stats_update = NOW(),
	updated_at = NOW()
WHERE id = $1
`, userID, rating, completedSwaps); err != nil {
		return fmt.Errorf("update rating stats: %w", err)
	}

	return nil
}

func (r *UserRepo) AddXP(ctx context.Context, userID int64, amount int) error {
	if r.pool == nil {
		return nil
	}
	if userID <= 0 || amount <= 0 {
		return fmt.Errorf("invalid xp payload")
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE users SET
	xp = xp + $2,
	updated_at = NOW()
WHERE id = $1
`, userID, amount); err != nil {
		return fmt.Errorf("add xp: %w", err)
	}

	return nil
}

// AddXPTx is the transactional variant used when an XP award has to land
// together with a badge grant.
func (r *UserRepo) AddXPTx(ctx context.Context, tx pgx.Tx, userID int64, amount int) error {
	if userID <= 0 || amount <= 0 {
		return fmt.Errorf("invalid xp payload")
	}

	if _, err := tx.Exec(ctx, `
UPDATE users SET
	xp = xp + $2,
	updated_at = NOW()
WHERE id = $1
`, userID, amount); err != nil {
		return fmt.Errorf("add xp: %w", err)
	}

	return nil
}

func (r *UserRepo) SetBan(ctx context.Context, userID int64, banned bool, reason string, actorID int64) error {
	if r.pool == nil {
		return nil
	}
	if userID <= 0 || actorID <= 0 {
		return fmt.Errorf("invalid ban payload")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE users SET
	is_banned = $2,
	ban_reason = NULLIF($3, ''),
	banned_by = CASE WHEN $2 THEN $4 ELSE NULL END,
	banned_at = CASE WHEN $2 THEN NOW() ELSE banned_at END,
	unbanned_at = CASE WHEN $2 THEN NULL ELSE NOW() END,
	updated_at = NOW()
WHERE id = $1
`, userID, banned, strings.TrimSpace(reason), actorID)
	if err != nil {
		return fmt.Errorf("set user ban: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Browse lists public, non-admin profiles other than ExcludeID, optionally
// filtered by a case-insensitive term over name and both skill sets and by
// availability.
func (r *UserRepo) Browse(ctx context.Context, filter BrowseFilter) ([]model.User, error) {
	if r.pool == nil {
		return []model.User{}, nil
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	term := strings.TrimSpace(filter.Term)
	availability := strings.TrimSpace(filter.Availability)

	rows, err := r.pool.Query(ctx, `
SELECT `+userColumns+`
FROM users
WHERE
	is_public = TRUE
	AND is_admin = FALSE
	AND is_banned = FALSE
	AND id <> $1
	AND ($2 = '' OR
		name ILIKE '%' || $2 || '%'
		OR EXISTS (SELECT 1 FROM unnest(COALESCE(skills_offered, '{}')) s WHERE s ILIKE '%' || $2 || '%')
		OR EXISTS (SELECT 1 FROM unnest(COALESCE(skills_wanted, '{}')) s WHERE s ILIKE '%' || $2 || '%'))
	AND ($3 = '' OR availability = $3)
ORDER BY created_at DESC, id DESC
LIMIT $4 OFFSET $5
`, filter.ExcludeID, term, availability, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("browse users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *UserRepo) ListAll(ctx context.Context, limit int) ([]model.User, error) {
	if r.pool == nil {
		return []model.User{}, nil
	}
	if limit <= 0 {
		limit = 500
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+userColumns+`
FROM users
ORDER BY created_at DESC, id DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func skillColumn(offered bool) string {
	if offered {
		return "skills_offered"
	}
	return "skills_wanted"
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Bio,
		&user.Location,
		&user.AvatarKey,
		&user.SkillsOffered,
		&user.SkillsWanted,
		&user.Availability,
		&user.IsPublic,
		&user.Rating,
		&user.CompletedSwaps,
		&user.XP,
		&user.IsAdmin,
		&user.IsBanned,
		&user.BanReason,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func collectUsers(rows pgx.Rows) ([]model.User, error) {
	items := make([]model.User, 0, 16)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, user)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate users: %w", rows.Err())
	}
	return items, nil
}
