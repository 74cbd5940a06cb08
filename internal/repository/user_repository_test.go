package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"chweb/internal/model"
	"chweb/internal/repository"
	"chweb/internal/repository/testutil"

	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, "admin", "key-1", "hash")
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "admin", byID.Username)
	require.Equal(t, "key-1", byID.APIKey)
	require.Equal(t, "hash", byID.PasswordHash)

	byKey, err := repo.GetByAPIKey(ctx, "key-1")
	require.NoError(t, err)
	require.Equal(t, created.ID, byKey.ID)

	byName, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, created.ID, byName.ID)
}

func TestUserRepository_GetMissing(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	u, err := repo.GetByAPIKey(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, u)

	u, err = repo.GetByUsername(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, u)

	u, err = repo.GetByID(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	testutil.SeedUser(t, db, model.User{Username: "admin"})

	_, err := repo.Create(ctx, "admin", "another-key", "hash")
	require.Error(t, err)
}

func TestUserRepository_UpdateAPIKey(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, model.User{Username: "admin", APIKey: "old"})

	require.NoError(t, repo.UpdateAPIKey(ctx, user.ID, "new"))

	old, err := repo.GetByAPIKey(ctx, "old")
	require.NoError(t, err)
	require.Nil(t, old)

	got, err := repo.GetByAPIKey(ctx, "new")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	require.ErrorIs(t, repo.UpdateAPIKey(ctx, 999, "x"), sql.ErrNoRows)
}

func TestUserRepository_UpdatePasswordAndDelete(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, model.User{Username: "admin", PasswordHash: "a"})

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "b"))
	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "b", got.PasswordHash)

	require.NoError(t, repo.Delete(ctx, user.ID))
	require.ErrorIs(t, repo.Delete(ctx, user.ID), sql.ErrNoRows)
}
