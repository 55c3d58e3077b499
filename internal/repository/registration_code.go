// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"fmt"
	"time"

	"notemark/internal/models"
)

// CreateRegistrationCode inserts a registration code for the user, calling
// generate for a fresh value and retrying when the value collides with
// another live code. Returns ErrCodeExists when the user already has one.
func (r *Repository) CreateRegistrationCode(ctx context.Context, userID int64, generate func() (string, error)) (*models.RegistrationCode, error) {
	return r.createCode(ctx, "registration_codes", userID, generate)
}

// GetRegistrationCode retrieves the live registration code for a user.
func (r *Repository) GetRegistrationCode(ctx context.Context, userID int64) (*models.RegistrationCode, error) {
	var code models.RegistrationCode
	if err := r.db.GetContext(ctx, &code, `SELECT * FROM registration_codes WHERE user_id = ?`, userID); err != nil {
		return nil, wrapError(err)
	}
	return &code, nil
}

// GetRegistrationCodeByValue retrieves a registration code matching the user
// and value pair.
func (r *Repository) GetRegistrationCodeByValue(ctx context.Context, userID int64, value string) (*models.RegistrationCode, error) {
	var code models.RegistrationCode
	if err := r.db.GetContext(ctx, &code, `SELECT * FROM registration_codes WHERE user_id = ? AND code = ?`, userID, value); err != nil {
		return nil, wrapError(err)
	}
	return &code, nil
}

// ActivateUserAndDeleteRegistrationCode flips the user to active and removes
// the registration code as one unit. If either write fails, neither happened.
func (r *Repository) ActivateUserAndDeleteRegistrationCode(ctx context.Context, userID, codeID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET is_active = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM registration_codes WHERE id = ?`, codeID); err != nil {
		return err
	}

	return tx.Commit()
}

// createCode implements the retry-on-duplicate insert shared by both code
// tables. A constraint violation means either the generated value collided
// (retry with a new one) or the user already holds a code (ErrCodeExists).
func (r *Repository) createCode(ctx context.Context, table string, userID int64, generate func() (string, error)) (*models.RegistrationCode, error) {
	now := time.Now().UTC()

	for attempt := 0; attempt < codeInsertRetries; attempt++ {
		value, err := generate()
		if err != nil {
			return nil, fmt.Errorf("generating code: %w", err)
		}

		res, err := r.db.ExecContext(ctx,
			`INSERT INTO `+table+` (user_id, code, created_at) VALUES (?, ?, ?)`,
			userID, value, now)
		if err == nil {
			id, idErr := res.LastInsertId()
			if idErr != nil {
				return nil, idErr
			}
			return &models.RegistrationCode{ID: id, UserID: userID, Code: value, CreatedAt: now}, nil
		}

		if !isConstraintViolation(err) {
			return nil, err
		}

		var exists bool
		if checkErr := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE user_id = ?)`, userID); checkErr != nil {
			return nil, checkErr
		}
		if exists {
			return nil, ErrCodeExists
		}
		// Value collision with another user's code; retry with a fresh one.
	}

	return nil, fmt.Errorf("could not insert unique code after %d attempts", codeInsertRetries)
}
