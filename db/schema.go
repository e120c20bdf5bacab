// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Supported dialects. They match the cliparse database types.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	var serial string
	switch dialect {
	case DialectSQLite:
		serial = "INTEGER PRIMARY KEY AUTOINCREMENT"
	case DialectPostgres:
		serial = "BIGSERIAL PRIMARY KEY"
	default:
		return fmt.Errorf("unsupported dialect %q", dialect)
	}

	for _, stmt := range strings.Split(strings.ReplaceAll(schema, "{{serial}}", serial), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Timestamps are Unix milliseconds in UTC.
const schema = `
-- Petitions
CREATE TABLE IF NOT EXISTS petition (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    category TEXT NOT NULL,
    author_id TEXT NOT NULL,
    author_name TEXT NOT NULL DEFAULT '',
    is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected', 'completed')),
    admin_comment TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_petition_status ON petition(status);
CREATE INDEX IF NOT EXISTS idx_petition_author ON petition(author_id);

-- Signatures
CREATE TABLE IF NOT EXISTS petition_signature (
    id {{serial}},
    petition_id TEXT NOT NULL REFERENCES petition(id) ON DELETE CASCADE,
    signer_id TEXT NOT NULL,
    signer_name TEXT NOT NULL DEFAULT '',
    signed_at BIGINT NOT NULL,
    UNIQUE (petition_id, signer_id)
);

CREATE INDEX IF NOT EXISTS idx_petition_signature_petition_id ON petition_signature(petition_id);
`
