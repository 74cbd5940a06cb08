package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"chweb/internal/model"
	"chweb/internal/repository"
	"chweb/internal/repository/testutil"

	"github.com/stretchr/testify/require"
)

func TestHostRepository_CreateAndList(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := repository.NewHostRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, "gateway", "k1")
	require.NoError(t, err)
	second, err := repo.Create(ctx, "laptop", "k2")
	require.NoError(t, err)

	hosts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 2)
	require.Equal(t, first.ID, hosts[0].ID)
	require.Equal(t, second.ID, hosts[1].ID)
	require.Equal(t, "gateway", hosts[0].Name)
	require.Nil(t, hosts[0].LastSeen)
	require.Equal(t, model.Tally{}, hosts[0].Counter)
}

func TestHostRepository_ListEmpty(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := repository.NewHostRepository(db)

	hosts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, hosts)
	require.Empty(t, hosts)
}

func TestHostRepository_GetByAPIKey(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := repository.NewHostRepository(db)
	ctx := context.Background()

	seeded := testutil.SeedHost(t, db, model.Host{Name: "gateway", APIKey: "secret"})

	got, err := repo.GetByAPIKey(ctx, "secret")
	require.NoError(t, err)
	require.Equal(t, seeded.ID, got.ID)

	missing, err := repo.GetByAPIKey(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestHostRepository_UpdateName(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := repository.NewHostRepository(db)
	ctx := context.Background()

	seeded := testutil.SeedHost(t, db, model.Host{Name: "old"})

	require.NoError(t, repo.UpdateName(ctx, seeded.ID, "new"))
	got, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, "new", got.Name)

	require.ErrorIs(t, repo.UpdateName(ctx, 12345, "x"), sql.ErrNoRows)
}

func TestHostRepository_UpdateAPIKey(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := repository.NewHostRepository(db)
	ctx := context.Background()

	seeded := testutil.SeedHost(t, db, model.Host{Name: "gateway", APIKey: "old"})

	require.NoError(t, repo.UpdateAPIKey(ctx, seeded.ID, "new"))
	got, err := repo.GetByAPIKey(ctx, "new")
	require.NoError(t, err)
	require.Equal(t, seeded.ID, got.ID)
}

func TestHostRepository_Touch(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := repository.NewHostRepository(db)
	ctx := context.Background()

	seeded := testutil.SeedHost(t, db, model.Host{Name: "gateway"})
	seen := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Touch(ctx, seeded.ID, seen))

	got, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSeen)
	require.True(t, seen.Equal(*got.LastSeen))

	require.ErrorIs(t, repo.Touch(ctx, 999, seen), sql.ErrNoRows)
}

func TestHostRepository_IncrementCounter(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := repository.NewHostRepository(db)
	ctx := context.Background()

	seeded := testutil.SeedHost(t, db, model.Host{Name: "gateway", Counter: model.Tally{Allowed: 2, Blocked: 5}})

	require.NoError(t, repo.IncrementCounter(ctx, seeded.ID, model.ActionBlocked))
	require.NoError(t, repo.IncrementCounter(ctx, seeded.ID, model.ActionAllowed))
	require.NoError(t, repo.IncrementCounter(ctx, seeded.ID, model.ActionBlocked))

	got, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, model.Tally{Allowed: 3, Blocked: 7}, got.Counter)

	require.ErrorIs(t, repo.IncrementCounter(ctx, 999, model.ActionBlocked), sql.ErrNoRows)
}

func TestHostRepository_Delete(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := repository.NewHostRepository(db)
	ctx := context.Background()

	seeded := testutil.SeedHost(t, db, model.Host{Name: "gateway"})

	require.NoError(t, repo.Delete(ctx, seeded.ID))
	got, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	require.ErrorIs(t, repo.Delete(ctx, seeded.ID), sql.ErrNoRows)
}
