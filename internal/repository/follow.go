package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"spotlapse/internal/model"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create relies on the primary key to serialize concurrent follows of the
// same pair: the loser of the race sees zero rows affected.
func (r *followRepository) Create(ctx context.Context, followerID, followingID string) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		switch code, _ := pgErrorCode(err); code {
		case pgForeignKeyViolation:
			return false, model.ErrProfileNotFound
		case pgCheckViolation:
			return false, model.ErrSelfFollowRejected
		}
		return false, fmt.Errorf("%w: failed to create follow: %w", model.ErrUpstream, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: failed to get rows affected: %w", model.ErrUpstream, err)
	}
	return rowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`
	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete follow: %w", model.ErrUpstream, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: failed to get rows affected: %w", model.ErrUpstream, err)
	}
	return rows > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, followerID, followingID); err != nil {
		return false, fmt.Errorf("%w: failed to check follow existence: %w", model.ErrUpstream, err)
	}
	return exists, nil
}

// GetFollowers lists profiles following userID, newest edge first.
//
// Pagination is keyed on the edge's created_at: fetch limit+1 rows and, when
// the extra row exists, return the last kept row's timestamp as nextCursor.
func (r *followRepository) GetFollowers(ctx context.Context, userID string, cursor *time.Time, limit int) ([]model.ProfileSummary, *time.Time, error) {
	return r.listEdges(ctx, "following_id", "follower_id", userID, cursor, limit)
}

// GetFollowing lists profiles userID follows. See GetFollowers.
func (r *followRepository) GetFollowing(ctx context.Context, userID string, cursor *time.Time, limit int) ([]model.ProfileSummary, *time.Time, error) {
	return r.listEdges(ctx, "follower_id", "following_id", userID, cursor, limit)
}

// listEdges selects the profile on the otherCol side of edges whose matchCol is userID.
// Column names are package constants, never user input.
func (r *followRepository) listEdges(ctx context.Context, matchCol, otherCol, userID string, cursor *time.Time, limit int) ([]model.ProfileSummary, *time.Time, error) {
	var query string
	var args []interface{}

	if cursor == nil {
		query = fmt.Sprintf(`
			SELECT p.id, p.username, p.avatar_url, p.bio, f.created_at
			FROM follows f
			JOIN profiles p ON p.id = f.%s
			WHERE f.%s = $1
			ORDER BY f.created_at DESC
			LIMIT $2
		`, otherCol, matchCol)
		args = []interface{}{userID, limit + 1}
	} else {
		query = fmt.Sprintf(`
			SELECT p.id, p.username, p.avatar_url, p.bio, f.created_at
			FROM follows f
			JOIN profiles p ON p.id = f.%s
			WHERE f.%s = $1 AND f.created_at < $2
			ORDER BY f.created_at DESC
			LIMIT $3
		`, otherCol, matchCol)
		args = []interface{}{userID, *cursor, limit + 1}
	}

	type profileWithTime struct {
		model.ProfileSummary
		CreatedAt time.Time `db:"created_at"`
	}

	var results []profileWithTime
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to list follow edges: %w", model.ErrUpstream, err)
	}

	var nextCursor *time.Time
	if len(results) > limit {
		results = results[:limit]
		nextCursor = &results[len(results)-1].CreatedAt
	}

	users := make([]model.ProfileSummary, 0, len(results))
	for _, result := range results {
		users = append(users, result.ProfileSummary)
	}
	return users, nextCursor, nil
}

func (r *followRepository) CheckFollows(ctx context.Context, followerID string, followingIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(followingIDs))
	if len(followingIDs) == 0 {
		return result, nil
	}

	query := `SELECT following_id FROM follows WHERE follower_id = $1 AND following_id = ANY($2::uuid[])`
	var followedIDs []string
	if err := r.db.SelectContext(ctx, &followedIDs, query, followerID, pq.Array(followingIDs)); err != nil {
		return nil, fmt.Errorf("%w: failed to check follows: %w", model.ErrUpstream, err)
	}

	for _, id := range followingIDs {
		result[id] = false
	}
	for _, id := range followedIDs {
		result[id] = true
	}
	return result, nil
}
