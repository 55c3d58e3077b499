// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth provides authentication context helpers.
package auth

import (
	"context"

	"notemark/internal/ctxkeys"
	"notemark/internal/services/session"
)

// WithUser returns a context carrying the authenticated session user.
func WithUser(ctx context.Context, user *session.User) context.Context {
	return context.WithValue(ctx, ctxkeys.User{}, user)
}

// GetUser returns the authenticated user from the context, or nil if not authenticated.
func GetUser(ctx context.Context) *session.User {
	if user, ok := ctx.Value(ctxkeys.User{}).(*session.User); ok {
		return user
	}
	return nil
}

// IsAuthenticated returns true if the context has an authenticated user.
func IsAuthenticated(ctx context.Context) bool {
	return GetUser(ctx) != nil
}
