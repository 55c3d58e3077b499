// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package otp generates the short one-time codes mailed during registration
// and password reset, and holds the expiry policy for reset codes.
package otp

import (
	"crypto/rand"
	"time"
)

const (
	// CodeLength is the length of every one-time code.
	CodeLength = 6
	// ResetCodeTTL is how long a password-reset code stays usable.
	ResetCodeTTL = 10 * time.Minute
)

// alphabet for codes (lowercase + digits, excluding confusing chars: 0, o, l, 1).
const alphabet = "23456789abcdefghjkmnpqrstuvwxyz"

// Generate returns a fresh random code. Collisions against the set of live
// codes are negligible but possible; the store's unique index is the backstop.
func Generate() (string, error) {
	bytes := make([]byte, CodeLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	for i := range bytes {
		bytes[i] = alphabet[int(bytes[i])%len(alphabet)]
	}

	return string(bytes), nil
}

// IsExpired reports whether a code created at createdAt has outlived ttl at
// the given instant. Expiry is evaluated lazily on access; nothing sweeps
// expired rows in the background.
func IsExpired(createdAt, now time.Time, ttl time.Duration) bool {
	return now.Sub(createdAt) > ttl
}
