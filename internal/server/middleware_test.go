// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notemark/internal/auth"
	"notemark/internal/config"
	"notemark/internal/services/session"
)

func newSessionManager(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager(&config.SessionConfig{
		CookieName: "_session",
		MaxAge:     3600,
	}, false)
	require.NoError(t, err)
	return m
}

func TestLoadUser_WithValidCookie(t *testing.T) {
	sessions := newSessionManager(t)
	cookie, err := sessions.Create(42, "jane")
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *session.User
	handler := loadUser(sessions)(func(c echo.Context) error {
		got = auth.GetUser(c.Request().Context())
		return nil
	})

	require.NoError(t, handler(c))
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, "jane", got.Username)
}

func TestLoadUser_WithoutCookie(t *testing.T) {
	sessions := newSessionManager(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *session.User
	handler := loadUser(sessions)(func(c echo.Context) error {
		got = auth.GetUser(c.Request().Context())
		return nil
	})

	require.NoError(t, handler(c))
	assert.Nil(t, got)
}

func TestRequireAuth_Unauthenticated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := requireAuth()(func(c echo.Context) error {
		called = true
		return nil
	})

	require.NoError(t, handler(c))
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_Authenticated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req = req.WithContext(auth.WithUser(req.Context(), &session.User{ID: 1, Username: "jane"}))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := requireAuth()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}
