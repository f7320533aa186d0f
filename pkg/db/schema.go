package db

import (
	log "github.com/sirupsen/logrus"
)

// Bootstrap DDL, safe to run on every startup. The unique index on
// trial_logs.ip_address is load-bearing: concurrent trial inserts for the
// same address must collide at the database, not at a presence check.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		credits INTEGER NOT NULL DEFAULT 3 CHECK (credits >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		platform TEXT NOT NULL DEFAULT '',
		duration TEXT NOT NULL DEFAULT '',
		style TEXT NOT NULL DEFAULT '',
		scenes_json TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS trial_logs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		ip_address TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the three tables if they do not exist yet.
func EnsureSchema() error {
	for _, stmt := range schema {
		if _, err := DB.Exec(stmt); err != nil {
			log.Errorf("Failed to apply schema statement: %v", err)
			return err
		}
	}
	log.Info("Database schema ensured.")
	return nil
}
