// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles schema creation and petition storage.

# Opening a Store

Open connects, pings, and creates the schema:

	store, err := db.Open(db.DialectSQLite, "petitions.db")
	store, err := db.Open(db.DialectPostgres, "postgres://...")

SQLite uses modernc.org/sqlite with foreign keys and a busy timeout enabled
and a single open connection. PostgreSQL uses lib/pq.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - petition: Petition text, author, status, admin comment
  - petition_signature: One row per signer per petition

# Relationships

	petition 1──* petition_signature

UNIQUE (petition_id, signer_id) makes double signing impossible even under
concurrent requests. Timestamps are stored as Unix milliseconds (UTC).

# Error Mapping

  - GetPetition, DeletePetition on a missing row: petition.ErrNotFound
  - AddSignature unique violation: petition.ErrAlreadySigned
  - AddSignature on a missing petition: petition.ErrNotFound
  - UpdateStatus when the stored status moved on: petition.ErrIllegalTransition

Both SQLite extended result codes and PostgreSQL SQLSTATEs (23505, 23503)
are recognised.

# Placeholders

Queries are written with ? placeholders and rebound to $1..$n for
PostgreSQL.
*/
package db
