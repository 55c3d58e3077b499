// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package otp_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notemark/internal/services/otp"
)

func TestGenerate_Length(t *testing.T) {
	code, err := otp.Generate()

	require.NoError(t, err)
	assert.Len(t, code, otp.CodeLength)
}

func TestGenerate_ValidCharacters(t *testing.T) {
	const valid = "23456789abcdefghjkmnpqrstuvwxyz"

	for i := 0; i < 50; i++ {
		code, err := otp.Generate()
		require.NoError(t, err)

		for _, r := range code {
			assert.True(t, strings.ContainsRune(valid, r), "unexpected character %q in code %s", r, code)
		}
	}
}

func TestGenerate_UniqueValues(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		code, err := otp.Generate()
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code generated: %s", code)
		seen[code] = true
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, otp.IsExpired(now.Add(-5*time.Minute), now, otp.ResetCodeTTL))
	assert.False(t, otp.IsExpired(now.Add(-otp.ResetCodeTTL), now, otp.ResetCodeTTL))
	assert.True(t, otp.IsExpired(now.Add(-11*time.Minute), now, otp.ResetCodeTTL))
}

func TestIsExpired_FreshCode(t *testing.T) {
	now := time.Now()

	assert.False(t, otp.IsExpired(now, now, otp.ResetCodeTTL))
}
