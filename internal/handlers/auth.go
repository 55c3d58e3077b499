// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"notemark/internal/auth"
	"notemark/internal/services/account"
	"notemark/internal/services/session"
)

// AuthHandlers contains handlers for the credential lifecycle.
type AuthHandlers struct {
	accounts *account.Service
	sessions *session.Manager
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(accounts *account.Service, sessions *session.Manager) *AuthHandlers {
	return &AuthHandlers{
		accounts: accounts,
		sessions: sessions,
	}
}

// Register creates a new, not yet activated account and mails the
// confirmation code.
func (h *AuthHandlers) Register(c echo.Context) error {
	var params account.RegisterParams
	if err := c.Bind(&params); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}

	userID, err := h.accounts.Register(c.Request().Context(), params)
	if err != nil {
		// The account and code exist even when the mail could not be
		// delivered; report both.
		if errors.Is(err, account.ErrMailDelivery) {
			return c.JSON(http.StatusBadGateway, map[string]any{
				"error":   account.ErrMailDelivery.Error(),
				"user_id": userID,
			})
		}
		return accountError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{"user_id": userID})
}

// Confirm activates an account with the emailed registration code.
func (h *AuthHandlers) Confirm(c echo.Context) error {
	var params account.ConfirmRegistrationParams
	if err := c.Bind(&params); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}

	if err := h.accounts.ConfirmRegistration(c.Request().Context(), params); err != nil {
		return accountError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies the credential and establishes a session cookie.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}

	user, err := h.accounts.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return accountError(c, err)
	}

	cookie, err := h.sessions.Create(user.ID, user.Username)
	if err != nil {
		return accountError(c, err)
	}
	c.SetCookie(cookie)

	return c.NoContent(http.StatusNoContent)
}

// Logout clears the session cookie.
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Destroy())
	return c.NoContent(http.StatusNoContent)
}

// ResetRequest is the request body for requesting a password reset.
type ResetRequest struct {
	Email string `json:"email"`
}

// RequestReset issues a password reset code and mails it.
func (h *AuthHandlers) RequestReset(c echo.Context) error {
	var req ResetRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}
	if req.Email == "" {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"errors": account.ValidationErrors{{Field: "email", Reason: "is required"}},
		})
	}

	if err := h.accounts.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return accountError(c, err)
	}

	return c.NoContent(http.StatusAccepted)
}

// ConfirmReset sets a new password using the emailed reset code.
func (h *AuthHandlers) ConfirmReset(c echo.Context) error {
	var params account.ConfirmPasswordResetParams
	if err := c.Bind(&params); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}

	if err := h.accounts.ConfirmPasswordReset(c.Request().Context(), params); err != nil {
		return accountError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ChangePassword sets a new password for the authenticated user and renews
// the session so the user stays logged in.
func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())
	if user == nil {
		return errorJSON(c, http.StatusUnauthorized, "authentication required")
	}

	var params account.ChangePasswordParams
	if err := c.Bind(&params); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), user.ID, params); err != nil {
		return accountError(c, err)
	}

	cookie, err := h.sessions.Create(user.ID, user.Username)
	if err != nil {
		return accountError(c, err)
	}
	c.SetCookie(cookie)

	return c.NoContent(http.StatusNoContent)
}
