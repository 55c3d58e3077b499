// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"notemark/internal/models"
)

// CreateComment inserts a new comment on a note.
func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (note_id, author_id, content, created_at) VALUES (?, ?, ?, ?)`,
		comment.NoteID, comment.AuthorID, comment.Content, now)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = id
	comment.CreatedAt = now
	return nil
}

// ListCommentsByNote returns a note's comments, oldest first.
func (r *Repository) ListCommentsByNote(ctx context.Context, noteID int64) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := r.db.SelectContext(ctx, &comments, `SELECT * FROM comments WHERE note_id = ? ORDER BY created_at, id`, noteID); err != nil {
		return nil, err
	}
	return comments, nil
}
