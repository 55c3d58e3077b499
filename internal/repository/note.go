// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"notemark/internal/models"
)

// CreateNote inserts a new note.
func (r *Repository) CreateNote(ctx context.Context, note *models.Note) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (author_id, title, content, image_path, is_public, share_token, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		note.AuthorID, note.Title, note.Content, note.ImagePath, note.IsPublic, note.ShareToken, now, now)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	note.ID = id
	note.CreatedAt = now
	note.UpdatedAt = now
	return nil
}

// GetNoteByID retrieves a note by ID.
func (r *Repository) GetNoteByID(ctx context.Context, id int64) (*models.Note, error) {
	var note models.Note
	if err := r.db.GetContext(ctx, &note, `SELECT * FROM notes WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &note, nil
}

// GetNoteByAuthor retrieves a note only when it belongs to the given author.
func (r *Repository) GetNoteByAuthor(ctx context.Context, id, authorID int64) (*models.Note, error) {
	var note models.Note
	if err := r.db.GetContext(ctx, &note, `SELECT * FROM notes WHERE id = ? AND author_id = ?`, id, authorID); err != nil {
		return nil, wrapError(err)
	}
	return &note, nil
}

// GetPublicNoteByShareToken resolves a public note through its share token.
// Non-public notes are not reachable this way.
func (r *Repository) GetPublicNoteByShareToken(ctx context.Context, token string) (*models.Note, error) {
	var note models.Note
	if err := r.db.GetContext(ctx, &note, `SELECT * FROM notes WHERE share_token = ? AND is_public = 1`, token); err != nil {
		return nil, wrapError(err)
	}
	return &note, nil
}

// ListNotesByAuthor returns the author's notes, newest first.
func (r *Repository) ListNotesByAuthor(ctx context.Context, authorID int64) ([]models.Note, error) {
	notes := []models.Note{}
	if err := r.db.SelectContext(ctx, &notes, `SELECT * FROM notes WHERE author_id = ? ORDER BY created_at DESC, id DESC`, authorID); err != nil {
		return nil, err
	}
	return notes, nil
}

// SearchPublicNotes returns public notes whose title contains the query,
// newest first. An empty query returns all public notes.
func (r *Repository) SearchPublicNotes(ctx context.Context, query string) ([]models.Note, error) {
	notes := []models.Note{}
	err := r.db.SelectContext(ctx, &notes,
		`SELECT * FROM notes WHERE is_public = 1 AND title LIKE '%' || ? || '%' ORDER BY created_at DESC, id DESC`,
		query)
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// UpdateNote saves title, content and visibility of an existing note.
func (r *Repository) UpdateNote(ctx context.Context, note *models.Note) error {
	note.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, is_public = ?, updated_at = ? WHERE id = ?`,
		note.Title, note.Content, note.IsPublic, note.UpdatedAt, note.ID)
	return err
}

// SetNoteImage records the stored image path for a note.
func (r *Repository) SetNoteImage(ctx context.Context, id int64, imagePath string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notes SET image_path = ?, updated_at = ? WHERE id = ?`,
		imagePath, time.Now().UTC(), id)
	return err
}

// DeleteNote removes a note; its comments are cascade-deleted.
func (r *Repository) DeleteNote(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	return err
}
