package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(150) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		salt VARCHAR(64) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS events (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date DATE NOT NULL,
		location_name VARCHAR(255),
		latitude NUMERIC(9, 6),
		longitude NUMERIC(9, 6),
		place_id VARCHAR(255),
		theme VARCHAR(50) NOT NULL DEFAULT 'basic',
		food_description VARCHAR(255),
		host_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
		host_name VARCHAR(100) NOT NULL DEFAULT '',
		fee BIGINT NOT NULL DEFAULT 0,
		max_members INTEGER NOT NULL DEFAULT 0 CHECK (max_members >= 0),
		invite_code VARCHAR(64) UNIQUE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_events_date ON events (date DESC, id DESC)`,

	`CREATE TABLE IF NOT EXISTS participants (
		id BIGSERIAL PRIMARY KEY,
		event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		user_id BIGINT REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (event_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS todos (
		id BIGSERIAL PRIMARY KEY,
		event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		task VARCHAR(200) NOT NULL,
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_todos_event ON todos (event_id)`,

	`CREATE TABLE IF NOT EXISTS themes (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(50) UNIQUE NOT NULL,
		description VARCHAR(200)
	)`,

	`CREATE TABLE IF NOT EXISTS event_invitations (
		id BIGSERIAL PRIMARY KEY,
		event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		email VARCHAR(255) NOT NULL,
		sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
