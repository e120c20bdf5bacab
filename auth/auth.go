// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MaxCitizenIDLen bounds identity header values.
const MaxCitizenIDLen = 64

var (
	ErrInvalidAdminKey  = errors.New("invalid admin key")
	ErrInvalidCitizenID = errors.New("invalid citizen id")
)

// NewPetitionID returns a random UUID string.
func NewPetitionID() string {
	return uuid.NewString()
}

// GenerateAdminKey creates an HMAC-based admin key for a citizen.
// This is deterministic and verifiable
func GenerateAdminKey(citizenID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(citizenID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key was issued to the citizen
func ValidateAdminKey(citizenID, adminKey, salt string) error {
	if citizenID == "" || adminKey == "" {
		return ErrInvalidAdminKey
	}
	expected := GenerateAdminKey(citizenID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// ValidateCitizenID rejects empty, oversized, or control-character IDs.
func ValidateCitizenID(id string) error {
	if id == "" || len(id) > MaxCitizenIDLen {
		return ErrInvalidCitizenID
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return ErrInvalidCitizenID
		}
	}
	return nil
}
