// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Note is a personal note. Public notes are reachable by anyone through the
// share token; everything else is owner-only.
type Note struct { //nolint:govet // fieldalignment: readability over optimization
	ID         int64     `db:"id" json:"id"`
	AuthorID   int64     `db:"author_id" json:"author_id"`
	Title      string    `db:"title" json:"title"`
	Content    string    `db:"content" json:"content"`
	ImagePath  string    `db:"image_path" json:"image_path,omitempty"`
	IsPublic   bool      `db:"is_public" json:"is_public"`
	ShareToken string    `db:"share_token" json:"share_token"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// MaxTitleLength is the upper bound for note titles.
const MaxTitleLength = 200
