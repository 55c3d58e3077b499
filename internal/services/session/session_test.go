// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package session_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notemark/internal/config"
	"notemark/internal/services/session"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager(&config.SessionConfig{
		CookieName: "_session",
		MaxAge:     3600,
	}, false)
	require.NoError(t, err)
	return m
}

func TestCreateAndParse(t *testing.T) {
	m := newManager(t)

	cookie, err := m.Create(42, "jane")
	require.NoError(t, err)
	assert.Equal(t, "_session", cookie.Name)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)

	user, err := m.Parse(req)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "jane", user.Username)
}

func TestParse_NoCookie(t *testing.T) {
	m := newManager(t)

	req := httptest.NewRequest("GET", "/", nil)

	_, err := m.Parse(req)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestParse_TamperedCookie(t *testing.T) {
	m := newManager(t)

	cookie, err := m.Create(42, "jane")
	require.NoError(t, err)
	cookie.Value += "x"

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)

	_, err = m.Parse(req)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestParse_DifferentManagerKeys(t *testing.T) {
	// Keys are generated per manager when unset, so a cookie from one
	// manager must not validate on another.
	m1 := newManager(t)
	m2 := newManager(t)

	cookie, err := m1.Create(42, "jane")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)

	_, err = m2.Parse(req)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestNewManager_BadHashKey(t *testing.T) {
	_, err := session.NewManager(&config.SessionConfig{
		CookieName: "_session",
		HashKey:    "nothex",
	}, false)

	assert.Error(t, err)
}

func TestDestroy(t *testing.T) {
	m := newManager(t)

	cookie := m.Destroy()

	assert.Equal(t, "_session", cookie.Name)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.Empty(t, cookie.Value)
}
