package database

import (
	"context"
	"fmt"
)

// InitSchema creates the catalog tables if they do not exist yet.
// Idempotent bootstrap, not a migration system.
func (db *Postgres) InitSchema(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			slug TEXT NOT NULL,
			year_of_release INT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_movies_slug
			ON movies USING btree(slug)`,
		`CREATE TABLE IF NOT EXISTS genres (
			id UUID PRIMARY KEY,
			movie_id UUID NOT NULL REFERENCES movies (id),
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			user_id UUID,
			movie_id UUID NOT NULL REFERENCES movies (id),
			rating INTEGER NOT NULL,
			PRIMARY KEY (user_id, movie_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return nil
}
