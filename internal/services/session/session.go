// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session implements cookie sessions signed (and optionally
// encrypted) with gorilla/securecookie.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"

	"notemark/internal/config"
)

// ErrNoSession is returned when the request carries no valid session cookie.
var ErrNoSession = errors.New("no valid session")

// User is the authenticated identity carried in the session cookie.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Manager creates, parses and destroys session cookies.
type Manager struct {
	sc         *securecookie.SecureCookie
	cookieName string
	maxAge     int
	secure     bool
}

// NewManager creates a session manager from the session config. Missing keys
// are generated at startup, which invalidates sessions across restarts; set
// them explicitly for production.
func NewManager(cfg *config.SessionConfig, secure bool) (*Manager, error) {
	hashKey, err := keyFromHex(cfg.HashKey, 32)
	if err != nil {
		return nil, fmt.Errorf("session hash key: %w", err)
	}

	var blockKey []byte
	if cfg.BlockKey != "" {
		blockKey, err = keyFromHex(cfg.BlockKey, 32)
		if err != nil {
			return nil, fmt.Errorf("session block key: %w", err)
		}
	}

	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(cfg.MaxAge)

	return &Manager{
		sc:         sc,
		cookieName: cfg.CookieName,
		maxAge:     cfg.MaxAge,
		secure:     secure,
	}, nil
}

// Create returns a session cookie for the given user.
func (m *Manager) Create(userID int64, username string) (*http.Cookie, error) {
	value, err := m.sc.Encode(m.cookieName, &User{ID: userID, Username: username})
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}

	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   m.maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Parse extracts the session user from the request, or ErrNoSession.
func (m *Manager) Parse(r *http.Request) (*User, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	var user User
	if err := m.sc.Decode(m.cookieName, cookie.Value, &user); err != nil {
		return nil, ErrNoSession
	}
	if user.ID == 0 {
		return nil, ErrNoSession
	}
	return &user, nil
}

// Destroy returns an expired cookie that clears the session.
func (m *Manager) Destroy() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// keyFromHex decodes a hex key of the given byte size, generating a random
// one when the input is empty.
func keyFromHex(s string, size int) ([]byte, error) {
	if s == "" {
		key := make([]byte, size)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		return key, nil
	}

	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != size {
		return nil, fmt.Errorf("expected %d bytes, got %d", size, len(key))
	}
	return key, nil
}
