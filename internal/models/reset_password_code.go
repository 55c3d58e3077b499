// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// ResetPasswordCode is the one-time code mailed for a password reset. At most
// one exists per user. Expiry is evaluated lazily on the next reset request;
// see otp.IsExpired.
type ResetPasswordCode struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Code      string    `db:"code" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
