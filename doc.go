// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ss-petitions API server.

ss-petitions runs the city petition board: citizens submit petitions,
admins approve or reject them, citizens sign approved petitions, and
admins mark them completed.

# Starting the Server

The server reads CLI flags, then the environment, then an optional .env file:

	ADMIN_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -rules rules.toml

# Configuration

Required settings:

  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Database path or connection string (default: petitions.db)
  - RULES_FILE (-rules): Petition rules file read with viper
  - PETITIONS_* : Per-rule overrides, e.g. PETITIONS_REQUIRED_SIGNATURES

# Architecture

  - petition: Domain model, validation, list views, permissions
  - handlers: HTTP request handlers (petitions, signatures, review)
  - router: chi routes and middleware stack
  - middleware: CORS, logging, viewer identification, JSON helpers
  - hub: Websocket change notifications
  - client: Panel-side client with local validation
  - models: Request/response types
  - auth: ID generation and admin key validation
  - db: SQLite and PostgreSQL store
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
