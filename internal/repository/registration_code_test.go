// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notemark/internal/repository"
	"notemark/internal/services/otp"
	"notemark/internal/testutil"
)

func TestCreateRegistrationCode(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")

	code, err := repo.CreateRegistrationCode(ctx, user.ID, otp.Generate)

	require.NoError(t, err)
	assert.NotZero(t, code.ID)
	assert.Len(t, code.Code, otp.CodeLength)
	assert.Equal(t, user.ID, code.UserID)
}

func TestCreateRegistrationCode_OnePerUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")

	_, err := repo.CreateRegistrationCode(ctx, user.ID, otp.Generate)
	require.NoError(t, err)

	_, err = repo.CreateRegistrationCode(ctx, user.ID, otp.Generate)
	assert.ErrorIs(t, err, repository.ErrCodeExists)
}

func TestCreateRegistrationCode_DuplicateValueRejected(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	jane := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")
	john := testutil.NewActiveUser(t, repo, "john", "john@x.com", "pw")

	fixed := func() (string, error) { return "aaaaaa", nil }

	_, err := repo.CreateRegistrationCode(ctx, jane.ID, fixed)
	require.NoError(t, err)

	// A generator that keeps producing the same value exhausts the retry
	// budget; the unique index never lets the duplicate in.
	_, err = repo.CreateRegistrationCode(ctx, john.ID, fixed)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrCodeExists)

	_, err = repo.GetRegistrationCode(ctx, john.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateRegistrationCode_RetriesOnCollision(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	jane := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")
	john := testutil.NewActiveUser(t, repo, "john", "john@x.com", "pw")

	_, err := repo.CreateRegistrationCode(ctx, jane.ID, func() (string, error) { return "aaaaaa", nil })
	require.NoError(t, err)

	// First attempt collides with jane's code, second succeeds.
	values := []string{"aaaaaa", "bbbbbb"}
	i := 0
	gen := func() (string, error) {
		v := values[i]
		i++
		return v, nil
	}

	code, err := repo.CreateRegistrationCode(ctx, john.ID, gen)
	require.NoError(t, err)
	assert.Equal(t, "bbbbbb", code.Code)
}

func TestGetRegistrationCodeByValue(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")

	created, err := repo.CreateRegistrationCode(ctx, user.ID, otp.Generate)
	require.NoError(t, err)

	code, err := repo.GetRegistrationCodeByValue(ctx, user.ID, created.Code)
	require.NoError(t, err)
	assert.Equal(t, created.ID, code.ID)

	_, err = repo.GetRegistrationCodeByValue(ctx, user.ID, "zzzzzz")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestActivateUserAndDeleteRegistrationCode(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := newUser("jane", "jane@x.com")
	require.NoError(t, repo.CreateUser(ctx, user))
	code, err := repo.CreateRegistrationCode(ctx, user.ID, otp.Generate)
	require.NoError(t, err)

	require.NoError(t, repo.ActivateUserAndDeleteRegistrationCode(ctx, user.ID, code.ID))

	activated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	_, err = repo.GetRegistrationCode(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRegistrationCode_CascadeDeletedWithUser(t *testing.T) {
	db, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewActiveUser(t, repo, "jane", "jane@x.com", "pw")

	_, err := repo.CreateRegistrationCode(ctx, user.ID, otp.Generate)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, user.ID)
	require.NoError(t, err)

	_, err = repo.GetRegistrationCode(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
