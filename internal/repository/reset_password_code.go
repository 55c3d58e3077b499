// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"notemark/internal/models"
)

// CreateResetPasswordCode inserts a reset code for the user with a freshly
// generated value, retrying on value collisions. Returns ErrCodeExists when
// the user already holds a reset code.
func (r *Repository) CreateResetPasswordCode(ctx context.Context, userID int64, generate func() (string, error)) (*models.ResetPasswordCode, error) {
	code, err := r.createCode(ctx, "reset_password_codes", userID, generate)
	if err != nil {
		return nil, err
	}
	return &models.ResetPasswordCode{ID: code.ID, UserID: code.UserID, Code: code.Code, CreatedAt: code.CreatedAt}, nil
}

// GetResetPasswordCode retrieves the reset code for a user.
func (r *Repository) GetResetPasswordCode(ctx context.Context, userID int64) (*models.ResetPasswordCode, error) {
	var code models.ResetPasswordCode
	if err := r.db.GetContext(ctx, &code, `SELECT * FROM reset_password_codes WHERE user_id = ?`, userID); err != nil {
		return nil, wrapError(err)
	}
	return &code, nil
}

// GetResetPasswordCodeByValue retrieves a reset code matching the user and
// value pair.
func (r *Repository) GetResetPasswordCodeByValue(ctx context.Context, userID int64, value string) (*models.ResetPasswordCode, error) {
	var code models.ResetPasswordCode
	if err := r.db.GetContext(ctx, &code, `SELECT * FROM reset_password_codes WHERE user_id = ? AND code = ?`, userID, value); err != nil {
		return nil, wrapError(err)
	}
	return &code, nil
}

// DeleteResetPasswordCode removes a reset code by ID.
func (r *Repository) DeleteResetPasswordCode(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reset_password_codes WHERE id = ?`, id)
	return err
}

// UpdatePasswordAndDeleteResetCode overwrites the user's credential and
// removes the consumed reset code as one unit.
func (r *Repository) UpdatePasswordAndDeleteResetCode(ctx context.Context, userID int64, passwordHash string, codeID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reset_password_codes WHERE id = ?`, codeID); err != nil {
		return err
	}

	return tx.Commit()
}
