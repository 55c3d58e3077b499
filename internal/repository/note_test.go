// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notemark/internal/models"
	"notemark/internal/repository"
	"notemark/internal/testutil"
)

func TestCreateNote(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	user := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")

	note := testutil.NewNote(t, repo, user.ID, "Groceries", false)

	assert.NotZero(t, note.ID)
	assert.NotZero(t, note.CreatedAt)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)
}

func TestGetNoteByAuthor(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	jane := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")
	john := testutil.NewActiveUser(t, repo, "john", "john@x.com", "pw")

	note := testutil.NewNote(t, repo, jane.ID, "Groceries", false)

	retrieved, err := repo.GetNoteByAuthor(ctx, note.ID, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", retrieved.Title)

	// Other users cannot reach the note through the owner path.
	_, err = repo.GetNoteByAuthor(ctx, note.ID, john.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetPublicNoteByShareToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	jane := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")

	public := testutil.NewNote(t, repo, jane.ID, "Public Note", true)
	private := testutil.NewNote(t, repo, jane.ID, "Private Note", false)

	retrieved, err := repo.GetPublicNoteByShareToken(ctx, public.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, public.ID, retrieved.ID)

	_, err = repo.GetPublicNoteByShareToken(ctx, private.ShareToken)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListNotesByAuthor(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	jane := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")
	john := testutil.NewActiveUser(t, repo, "john", "john@x.com", "pw")

	first := testutil.NewNote(t, repo, jane.ID, "First", false)
	second := testutil.NewNote(t, repo, jane.ID, "Second", false)
	testutil.NewNote(t, repo, john.ID, "Johns Note", false)

	notes, err := repo.ListNotesByAuthor(ctx, jane.ID)

	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID)
	assert.Equal(t, first.ID, notes[1].ID)
}

func TestSearchPublicNotes(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	jane := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")

	match := testutil.NewNote(t, repo, jane.ID, "Go recipes", true)
	testutil.NewNote(t, repo, jane.ID, "Shopping list", true)
	testutil.NewNote(t, repo, jane.ID, "Secret recipes", false)

	notes, err := repo.SearchPublicNotes(ctx, "recipes")

	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, match.ID, notes[0].ID)
}

func TestSearchPublicNotes_EmptyQuery(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	jane := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")

	testutil.NewNote(t, repo, jane.ID, "One", true)
	testutil.NewNote(t, repo, jane.ID, "Two", true)
	testutil.NewNote(t, repo, jane.ID, "Hidden", false)

	notes, err := repo.SearchPublicNotes(ctx, "")

	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestUpdateNote(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	jane := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")
	note := testutil.NewNote(t, repo, jane.ID, "Draft", false)

	note.Title = "Final"
	note.Content = "updated content"
	note.IsPublic = true
	require.NoError(t, repo.UpdateNote(ctx, note))

	retrieved, err := repo.GetNoteByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", retrieved.Title)
	assert.Equal(t, "updated content", retrieved.Content)
	assert.True(t, retrieved.IsPublic)
}

func TestSetNoteImage(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	jane := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")
	note := testutil.NewNote(t, repo, jane.ID, "Photo note", false)

	require.NoError(t, repo.SetNoteImage(ctx, note.ID, "media/abc.png"))

	retrieved, err := repo.GetNoteByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "media/abc.png", retrieved.ImagePath)
}

func TestDeleteNote_CascadesComments(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	jane := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")
	note := testutil.NewNote(t, repo, jane.ID, "Discussed", true)

	comment := &models.Comment{NoteID: note.ID, AuthorID: jane.ID, Content: "first!"}
	require.NoError(t, repo.CreateComment(ctx, comment))

	require.NoError(t, repo.DeleteNote(ctx, note.ID))

	_, err := repo.GetNoteByID(ctx, note.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	comments, err := repo.ListCommentsByNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
