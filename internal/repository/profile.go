package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"spotlapse/internal/model"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, p *model.Profile) error {
	query := `
		INSERT INTO profiles (id, username, avatar_url, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, p.ID, p.Username, p.AvatarURL, p.Bio).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if code, constraint := pgErrorCode(err); code == pgUniqueViolation {
			if constraint == "profiles_pkey" {
				return model.ErrProfileExists
			}
			return model.ErrUsernameTaken
		}
		return fmt.Errorf("%w: failed to insert profile: %w", model.ErrUpstream, err)
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, p *model.Profile) error {
	query := `
		UPDATE profiles
		SET username = $2, avatar_url = $3, bio = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, p.ID, p.Username, p.AvatarURL, p.Bio).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrProfileNotFound
		}
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return model.ErrUsernameTaken
		}
		return fmt.Errorf("%w: failed to update profile: %w", model.ErrUpstream, err)
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	query := `
		SELECT id, username, avatar_url, bio, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	var p model.Profile
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: failed to get profile by id: %w", model.ErrUpstream, err)
	}
	return &p, nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	query := `
		SELECT id, username, avatar_url, bio, created_at, updated_at
		FROM profiles
		WHERE username = $1
	`
	var p model.Profile
	if err := r.db.GetContext(ctx, &p, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: failed to get profile by username: %w", model.ErrUpstream, err)
	}
	return &p, nil
}

func (r *profileRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("%w: failed to check profile existence: %w", model.ErrUpstream, err)
	}
	return exists, nil
}

// GetStats counts from the capture and follow tables on every call; the stats
// cache sits in front of it.
func (r *profileRepository) GetStats(ctx context.Context, id string) (*model.ProfileStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM captures WHERE user_id = $1)      AS capture_count,
			(SELECT COUNT(*) FROM follows WHERE following_id = $1)  AS follower_count,
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1)   AS following_count
	`
	var stats model.ProfileStats
	if err := r.db.GetContext(ctx, &stats, query, id); err != nil {
		return nil, fmt.Errorf("%w: failed to get profile stats: %w", model.ErrUpstream, err)
	}
	return &stats, nil
}

// Search matches username or bio as a case-insensitive substring.
func (r *profileRepository) Search(ctx context.Context, query string, limit int) ([]model.ProfileSummary, error) {
	sqlQuery := `
		SELECT id, username, avatar_url, bio
		FROM profiles
		WHERE username ILIKE $1 ESCAPE '\' OR bio ILIKE $1 ESCAPE '\'
		ORDER BY username
		LIMIT $2
	`
	profiles := []model.ProfileSummary{}
	if err := r.db.SelectContext(ctx, &profiles, sqlQuery, containsPattern(query), limit); err != nil {
		return nil, fmt.Errorf("%w: failed to search profiles: %w", model.ErrUpstream, err)
	}
	return profiles, nil
}
