package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"spotlapse/internal/model"
)

type spotRepository struct {
	db *sqlx.DB
}

func NewSpotRepository(db *sqlx.DB) SpotRepository {
	return &spotRepository{db: db}
}

func (r *spotRepository) Create(ctx context.Context, s *model.Spot) error {
	query := `
		INSERT INTO spots (id, user_id, name, lat, lng, reference_image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRowxContext(ctx, query, s.ID, s.UserID, s.Name, s.Lat, s.Lng, s.ReferenceImageURL).
		Scan(&s.CreatedAt)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return model.ErrProfileNotFound
		}
		return fmt.Errorf("%w: failed to insert spot: %w", model.ErrUpstream, err)
	}
	return nil
}

func (r *spotRepository) GetByID(ctx context.Context, id string) (*model.Spot, error) {
	query := `
		SELECT id, user_id, name, lat, lng, reference_image_url, created_at
		FROM spots
		WHERE id = $1
	`
	var s model.Spot
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSpotNotFound
		}
		return nil, fmt.Errorf("%w: failed to get spot: %w", model.ErrUpstream, err)
	}
	return &s, nil
}

func (r *spotRepository) ListByUser(ctx context.Context, userID string) ([]model.Spot, error) {
	query := `
		SELECT id, user_id, name, lat, lng, reference_image_url, created_at
		FROM spots
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	spots := []model.Spot{}
	if err := r.db.SelectContext(ctx, &spots, query, userID); err != nil {
		return nil, fmt.Errorf("%w: failed to list spots: %w", model.ErrUpstream, err)
	}
	return spots, nil
}

func (r *spotRepository) GetOldestByUser(ctx context.Context, userID string) (*model.Spot, error) {
	query := `
		SELECT id, user_id, name, lat, lng, reference_image_url, created_at
		FROM spots
		WHERE user_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`
	var s model.Spot
	if err := r.db.GetContext(ctx, &s, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get oldest spot: %w", model.ErrUpstream, err)
	}
	return &s, nil
}

func (r *spotRepository) Search(ctx context.Context, query string, limit int) ([]model.SearchSpot, error) {
	sqlQuery := `
		SELECT s.id, s.user_id, s.name, s.lat, s.lng, s.reference_image_url, s.created_at,
		       p.id AS "owner.id", p.username AS "owner.username", p.avatar_url AS "owner.avatar_url"
		FROM spots s
		JOIN profiles p ON p.id = s.user_id
		WHERE s.name ILIKE $1 ESCAPE '\'
		ORDER BY s.created_at DESC
		LIMIT $2
	`
	spots := []model.SearchSpot{}
	if err := r.db.SelectContext(ctx, &spots, sqlQuery, containsPattern(query), limit); err != nil {
		return nil, fmt.Errorf("%w: failed to search spots: %w", model.ErrUpstream, err)
	}
	return spots, nil
}
