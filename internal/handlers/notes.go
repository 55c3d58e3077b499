// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"notemark/internal/auth"
	"notemark/internal/models"
	"notemark/internal/repository"
	"notemark/internal/services/session"
)

// NoteHandlers contains handlers for notes, comments, sharing and search.
type NoteHandlers struct {
	repo     *repository.Repository
	mediaDir string
}

// NewNotes creates a new NoteHandlers instance.
func NewNotes(repo *repository.Repository, mediaDir string) *NoteHandlers {
	return &NoteHandlers{repo: repo, mediaDir: mediaDir}
}

// NoteRequest is the request body for creating or updating a note.
type NoteRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsPublic bool   `json:"is_public"`
}

func (r *NoteRequest) validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if len(r.Title) > models.MaxTitleLength {
		return fmt.Errorf("title must be at most %d characters", models.MaxTitleLength)
	}
	return nil
}

// List returns the authenticated user's notes, newest first.
func (h *NoteHandlers) List(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())

	notes, err := h.repo.ListNotesByAuthor(c.Request().Context(), user.ID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]any{"notes": notes})
}

// Create creates a new note owned by the authenticated user.
func (h *NoteHandlers) Create(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}
	if err := req.validate(); err != nil {
		return errorJSON(c, http.StatusUnprocessableEntity, err.Error())
	}

	note := &models.Note{
		AuthorID:   user.ID,
		Title:      req.Title,
		Content:    req.Content,
		IsPublic:   req.IsPublic,
		ShareToken: uuid.NewString(),
	}
	if err := h.repo.CreateNote(c.Request().Context(), note); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, note)
}

// Get returns a single note of the authenticated user.
func (h *NoteHandlers) Get(c echo.Context) error {
	note, err := h.ownNote(c)
	if err != nil {
		return noteError(c, err)
	}
	return c.JSON(http.StatusOK, note)
}

// Update saves title, content and visibility of the user's note.
func (h *NoteHandlers) Update(c echo.Context) error {
	note, err := h.ownNote(c)
	if err != nil {
		return noteError(c, err)
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}
	if err := req.validate(); err != nil {
		return errorJSON(c, http.StatusUnprocessableEntity, err.Error())
	}

	note.Title = req.Title
	note.Content = req.Content
	note.IsPublic = req.IsPublic
	if err := h.repo.UpdateNote(c.Request().Context(), note); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, note)
}

// Delete removes the user's note together with its comments.
func (h *NoteHandlers) Delete(c echo.Context) error {
	note, err := h.ownNote(c)
	if err != nil {
		return noteError(c, err)
	}

	if err := h.repo.DeleteNote(c.Request().Context(), note.ID); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadImage attaches an image to the user's note. The file is stored under
// the media directory with a generated name; serving it is not part of the
// API.
func (h *NoteHandlers) UploadImage(c echo.Context) error {
	note, err := h.ownNote(c)
	if err != nil {
		return noteError(c, err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "image file is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "cannot read image file")
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(h.mediaDir, 0o750); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	name := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	path := filepath.Join(h.mediaDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	if err := h.repo.SetNoteImage(c.Request().Context(), note.ID, name); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]string{"image_path": name})
}

// CommentRequest is the request body for adding a comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// AddComment adds a comment to a note. The owner may comment on any of
// their notes; other users only on public ones.
func (h *NoteHandlers) AddComment(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())

	id, err := noteID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid note id")
	}

	note, err := h.repo.GetNoteByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "note not found")
		}
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
	if note.AuthorID != user.ID && !note.IsPublic {
		// Indistinguishable from a missing note.
		return errorJSON(c, http.StatusNotFound, "note not found")
	}

	return h.createComment(c, note, user)
}

// Shared resolves a public note through its share token, including its
// comments. Non-public notes are not reachable this way.
func (h *NoteHandlers) Shared(c echo.Context) error {
	note, err := h.repo.GetPublicNoteByShareToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "note not found")
		}
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	comments, err := h.repo.ListCommentsByNote(c.Request().Context(), note.ID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"note":     note,
		"comments": comments,
	})
}

// AddSharedComment adds a comment to a public note resolved through its
// share token.
func (h *NoteHandlers) AddSharedComment(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())

	note, err := h.repo.GetPublicNoteByShareToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "note not found")
		}
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return h.createComment(c, note, user)
}

// Search returns public notes whose title contains the query.
func (h *NoteHandlers) Search(c echo.Context) error {
	notes, err := h.repo.SearchPublicNotes(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]any{"notes": notes})
}

func (h *NoteHandlers) createComment(c echo.Context, note *models.Note, user *session.User) error {
	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}
	if req.Content == "" {
		return errorJSON(c, http.StatusUnprocessableEntity, "content is required")
	}

	comment := &models.Comment{
		NoteID:   note.ID,
		AuthorID: user.ID,
		Content:  req.Content,
	}
	if err := h.repo.CreateComment(c.Request().Context(), comment); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, comment)
}

var errBadNoteID = errors.New("invalid note id")

// ownNote resolves the :id parameter to a note owned by the authenticated
// user. Notes of other users are reported as not found.
func (h *NoteHandlers) ownNote(c echo.Context) (*models.Note, error) {
	user := auth.GetUser(c.Request().Context())

	id, err := noteID(c)
	if err != nil {
		return nil, errBadNoteID
	}

	return h.repo.GetNoteByAuthor(c.Request().Context(), id, user.ID)
}

// noteError maps note lookup errors onto HTTP responses.
func noteError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errBadNoteID):
		return errorJSON(c, http.StatusBadRequest, errBadNoteID.Error())
	case errors.Is(err, repository.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, "note not found")
	default:
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
}

func noteID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
