// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"notemark/internal/services/account"
)

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// accountError maps account service errors onto HTTP responses.
func accountError(c echo.Context, err error) error {
	var verrs account.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{"errors": verrs})
	case errors.Is(err, account.ErrInvalidConfirmationCode),
		errors.Is(err, account.ErrInvalidResetCode):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrInvalidCredentials):
		return errorJSON(c, http.StatusUnauthorized, account.ErrInvalidCredentials.Error())
	case errors.Is(err, account.ErrAccountInactive):
		return errorJSON(c, http.StatusForbidden, account.ErrAccountInactive.Error())
	case errors.Is(err, account.ErrUnknownEmail):
		return errorJSON(c, http.StatusNotFound, account.ErrUnknownEmail.Error())
	case errors.Is(err, account.ErrResetPending):
		return errorJSON(c, http.StatusConflict, account.ErrResetPending.Error())
	case errors.Is(err, account.ErrMailDelivery):
		return errorJSON(c, http.StatusBadGateway, account.ErrMailDelivery.Error())
	default:
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
}
