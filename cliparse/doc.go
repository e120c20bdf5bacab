// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite path or PostgreSQL connection string (default: petitions.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - RulesFile: Optional petition rules file
  - EnvFile: Env file loaded before the environment is read (default: .env)

# CLI Flags

	-p           Server port
	-d           Database URL
	-t           Database type
	-rules       Petition rules file
	-env-file    Env file
	-admin-salt  Admin key salt

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	RULES_FILE     → -rules
	ADMIN_KEY_SALT → -admin-salt

CLI flags take precedence over environment variables, and variables already
set take precedence over the env file. A missing env file is not an error.

# Rules

LoadRules builds petition.Rules with viper. Keys use snake_case:

	min_title_len = 5
	max_title_len = 100
	required_signatures = 15
	categories = ["General", "Economy"]
	review_policy = "immediate"

Every key can be overridden from the environment with a PETITIONS_ prefix,
for example PETITIONS_REQUIRED_SIGNATURES=25. The result is validated before
it is returned.
*/
package cliparse
