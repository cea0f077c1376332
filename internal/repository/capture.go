package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"spotlapse/internal/model"
)

type captureRepository struct {
	db *sqlx.DB
}

func NewCaptureRepository(db *sqlx.DB) CaptureRepository {
	return &captureRepository{db: db}
}

const captureViewColumns = `
	c.id, c.seq, c.user_id, c.spot_id, c.media_url, c.media_type, c.caption, c.created_at,
	p.id AS "profile.id", p.username AS "profile.username", p.avatar_url AS "profile.avatar_url",
	s.id AS "spot.id", s.name AS "spot.name", s.lat AS "spot.lat", s.lng AS "spot.lng"
`

const captureViewJoins = `
	FROM captures c
	JOIN profiles p ON p.id = c.user_id
	JOIN spots s ON s.id = c.spot_id
`

func (r *captureRepository) Create(ctx context.Context, c *model.Capture) error {
	query := `
		INSERT INTO captures (id, user_id, spot_id, media_url, media_type, caption, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING seq, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, c.ID, c.UserID, c.SpotID, c.MediaURL, c.MediaType, c.Caption).
		Scan(&c.Seq, &c.CreatedAt)
	if err != nil {
		if code, constraint := pgErrorCode(err); code == pgForeignKeyViolation && constraint == "captures_spot_owner_fkey" {
			return model.ErrSpotOwnership
		}
		return fmt.Errorf("%w: failed to insert capture: %w", model.ErrUpstream, err)
	}
	return nil
}

func (r *captureRepository) GetView(ctx context.Context, id string) (*model.CaptureView, error) {
	query := `SELECT ` + captureViewColumns + captureViewJoins + ` WHERE c.id = $1`

	var v model.CaptureView
	if err := r.db.GetContext(ctx, &v, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCaptureNotFound
		}
		return nil, fmt.Errorf("%w: failed to get capture: %w", model.ErrUpstream, err)
	}
	return &v, nil
}

// ListFeed pages through all captures newest first. Captures sharing a
// timestamp come out in insertion order, so the keyset condition is
// (created_at < cursor) OR (created_at = cursor AND seq > cursor.seq).
func (r *captureRepository) ListFeed(ctx context.Context, since *time.Time, after *CaptureCursor, limit int) ([]model.CaptureView, error) {
	var conditions []string
	var args []interface{}

	if since != nil {
		args = append(args, *since)
		conditions = append(conditions, fmt.Sprintf("c.created_at >= $%d", len(args)))
	}
	if after != nil {
		args = append(args, after.CreatedAt, after.Seq)
		conditions = append(conditions, fmt.Sprintf(
			"(c.created_at < $%d OR (c.created_at = $%d AND c.seq > $%d))",
			len(args)-1, len(args)-1, len(args)))
	}

	query := `SELECT ` + captureViewColumns + captureViewJoins
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY c.created_at DESC, c.seq ASC LIMIT $%d`, len(args))

	views := []model.CaptureView{}
	if err := r.db.SelectContext(ctx, &views, query, args...); err != nil {
		return nil, fmt.Errorf("%w: failed to list feed: %w", model.ErrUpstream, err)
	}
	return views, nil
}

func (r *captureRepository) ListThumbnailsByUser(ctx context.Context, userID string, limit int) ([]model.CaptureThumbnail, error) {
	query := `
		SELECT id, media_url, created_at
		FROM captures
		WHERE user_id = $1
		ORDER BY created_at DESC, seq ASC
		LIMIT $2
	`
	thumbs := []model.CaptureThumbnail{}
	if err := r.db.SelectContext(ctx, &thumbs, query, userID, limit); err != nil {
		return nil, fmt.Errorf("%w: failed to list user captures: %w", model.ErrUpstream, err)
	}
	return thumbs, nil
}

func (r *captureRepository) Search(ctx context.Context, query string, limit int) ([]model.SearchPost, error) {
	sqlQuery := `
		SELECT c.id, c.caption, c.media_url, c.media_type, c.created_at, c.user_id, c.spot_id,
		       s.name AS spot_name,
		       p.id AS "owner.id", p.username AS "owner.username", p.avatar_url AS "owner.avatar_url"
		FROM captures c
		JOIN profiles p ON p.id = c.user_id
		JOIN spots s ON s.id = c.spot_id
		WHERE c.caption ILIKE $1 ESCAPE '\'
		ORDER BY c.created_at DESC, c.seq ASC
		LIMIT $2
	`
	posts := []model.SearchPost{}
	if err := r.db.SelectContext(ctx, &posts, sqlQuery, containsPattern(query), limit); err != nil {
		return nil, fmt.Errorf("%w: failed to search captures: %w", model.ErrUpstream, err)
	}
	return posts, nil
}
