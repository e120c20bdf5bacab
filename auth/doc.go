// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin keys, identity checks, and ID generation.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(citizenID, salt)
	err := auth.ValidateAdminKey(citizenID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same citizen ID and salt always produce the same key. This allows
validation without storing keys in the database. Operators hand the key to
staff out of band; the game bridge sends it as X-Admin-Key.

# Citizen IDs

ValidateCitizenID rejects empty values, whitespace, control characters, and
IDs longer than MaxCitizenIDLen bytes.

# ID Generation

Petition IDs are random UUIDs:

	id := auth.NewPetitionID()
*/
package auth
