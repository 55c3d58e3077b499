// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package repository implements the persistence layer on top of sqlx.
package repository

import (
	"database/sql"
	"errors"

	"github.com/vinovest/sqlx"
	sqlite "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrCodeExists is returned when a one-time code already exists for the
	// user. The one-per-user unique index is the sole backstop against
	// concurrent requests racing on code creation.
	ErrCodeExists = errors.New("code already exists for user")
)

// codeInsertRetries bounds how often a code insert is retried when the
// generated value collides with another live code.
const codeInsertRetries = 3

// Repository wraps the database handle for all queries.
type Repository struct {
	db *sqlx.DB
}

// New creates a new Repository instance.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying sqlx handle for direct access.
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// wrapError converts database errors to repository errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// isConstraintViolation reports whether err is a SQLite constraint error
// (unique index or foreign key).
func isConstraintViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		// SQLITE_CONSTRAINT is the low byte of all constraint error codes.
		return serr.Code()&0xff == 19
	}
	return false
}
