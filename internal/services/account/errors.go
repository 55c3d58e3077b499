// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package account

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidConfirmationCode covers both "no such user" and "code
	// mismatch" during registration confirmation; the two are deliberately
	// indistinguishable to the caller.
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
	// ErrInvalidResetCode is the equally generic failure for reset
	// confirmation.
	ErrInvalidResetCode = errors.New("invalid reset code")
	// ErrInvalidCredentials is returned for a failed login without revealing
	// whether the username exists.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAccountInactive is returned when a not-yet-confirmed user tries to
	// log in. Unlike ErrInvalidCredentials it is distinguishable, so the
	// caller can route the user to confirmation.
	ErrAccountInactive = errors.New("account is not active")
	// ErrUnknownEmail is returned by a reset request for an unregistered
	// address.
	ErrUnknownEmail = errors.New("no user found with that email address")
	// ErrResetPending is returned when an unexpired reset code already
	// exists; requests are coalesced, not queued.
	ErrResetPending = errors.New("a reset code has already been sent")
	// ErrMailDelivery marks a failed email send. The state change it was
	// meant to announce has already been committed and is not rolled back.
	ErrMailDelivery = errors.New("could not deliver email")
)

// ValidationError is a single field-level input problem.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidationErrors collects all field-level problems of one request. A
// request that produces any mutates no state.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}
