package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"spotlapse/internal/logging"
)

// schemaStatements create the four entities. Statements are idempotent.
//
// captures.(spot_id, user_id) references spots.(id, user_id) so a capture can
// only attach to a spot owned by the same user, and follows rejects self-edges.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id          UUID PRIMARY KEY,
		username    VARCHAR(20) NOT NULL UNIQUE CHECK (username ~ '^[A-Za-z0-9_-]{3,20}$'),
		avatar_url  TEXT,
		bio         VARCHAR(160),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS spots (
		id                  UUID PRIMARY KEY,
		user_id             UUID NOT NULL REFERENCES profiles(id),
		name                VARCHAR(100) NOT NULL,
		lat                 DOUBLE PRECISION CHECK (lat BETWEEN -90 AND 90),
		lng                 DOUBLE PRECISION CHECK (lng BETWEEN -180 AND 180),
		reference_image_url TEXT,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT spots_lat_lng_pair CHECK ((lat IS NULL) = (lng IS NULL)),
		CONSTRAINT spots_id_user_unique UNIQUE (id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_spots_user_created ON spots(user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS captures (
		id          UUID PRIMARY KEY,
		seq         BIGSERIAL NOT NULL UNIQUE,
		user_id     UUID NOT NULL REFERENCES profiles(id),
		spot_id     UUID NOT NULL,
		media_url   TEXT NOT NULL,
		media_type  VARCHAR(10) NOT NULL CHECK (media_type IN ('photo', 'video')),
		caption     TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT captures_spot_owner_fkey FOREIGN KEY (spot_id, user_id) REFERENCES spots(id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_captures_created_seq ON captures(created_at DESC, seq)`,
	`CREATE INDEX IF NOT EXISTS idx_captures_user_created ON captures(user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS follows (
		follower_id  UUID NOT NULL REFERENCES profiles(id),
		following_id UUID NOT NULL REFERENCES profiles(id),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (follower_id, following_id),
		CONSTRAINT follows_no_self CHECK (follower_id <> following_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_follows_following_created ON follows(following_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_follows_follower_created ON follows(follower_id, created_at DESC)`,
}

// EnsureSchema creates missing tables and indexes on start-up.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	logging.Debug().Int("statements", len(schemaStatements)).Msg("Schema ensured")
	return nil
}
