package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id       TEXT PRIMARY KEY,
	email         TEXT,
	password_hash TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_idx ON users (email) WHERE email IS NOT NULL;

CREATE TABLE IF NOT EXISTS credentials (
	user_id    TEXT NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
	hash       TEXT NOT NULL,
	label      TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, hash)
);

CREATE TABLE IF NOT EXISTS door_config (
	id         TEXT PRIMARY KEY,
	time_zone  TEXT NOT NULL DEFAULT 'UTC',
	schedule   JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS access_events (
	user_id     TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	result      TEXT NOT NULL,
	email       TEXT NOT NULL DEFAULT '',
	door_id     TEXT NOT NULL DEFAULT '-',
	reason      TEXT NOT NULL DEFAULT '',
	http_status INT NOT NULL DEFAULT 0,
	nfc_hash    TEXT NOT NULL DEFAULT '',
	uid_last4   TEXT NOT NULL DEFAULT '',
	origin      TEXT NOT NULL DEFAULT '',
	request_id  TEXT NOT NULL DEFAULT '',
	source_ip   TEXT NOT NULL DEFAULT '',
	user_agent  TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (user_id, occurred_at, result)
);

CREATE INDEX IF NOT EXISTS access_events_occurred_idx ON access_events (occurred_at DESC);
`

// Open connects to PostgreSQL, verifies the connection and applies the
// schema. Callers own the returned handle and must Close it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
