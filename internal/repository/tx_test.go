package repository_test

import (
	"context"
	"errors"
	"testing"

	"chweb/internal/model"
	"chweb/internal/repository"
	"chweb/internal/repository/testutil"

	"github.com/stretchr/testify/require"
)

func TestTransactor_Commit(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	tx := repository.NewTransactor(db)
	counters := repository.NewCounterRepository(db)
	ctx := context.Background()

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := counters.Increment(ctx, "a.com", model.ActionBlocked); err != nil {
			return err
		}
		return counters.Increment(ctx, model.GlobalCounterKey, model.ActionBlocked)
	})
	require.NoError(t, err)

	c, err := counters.Get(ctx, "a.com")
	require.NoError(t, err)
	require.Equal(t, int64(1), c.Blocked)
}

func TestTransactor_Rollback(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	tx := repository.NewTransactor(db)
	counters := repository.NewCounterRepository(db)
	hosts := repository.NewHostRepository(db)
	ctx := context.Background()

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := counters.Increment(ctx, model.GlobalCounterKey, model.ActionBlocked); err != nil {
			return err
		}
		if err := counters.Increment(ctx, "a.com", model.ActionBlocked); err != nil {
			return err
		}
		return hosts.IncrementCounter(ctx, 404, model.ActionBlocked)
	})
	require.Error(t, err)

	global, err := counters.Get(ctx, model.GlobalCounterKey)
	require.NoError(t, err)
	require.Zero(t, global.Blocked)

	domain, err := counters.Get(ctx, "a.com")
	require.NoError(t, err)
	require.Zero(t, domain.Blocked)
}

func TestTransactor_Nested(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	tx := repository.NewTransactor(db)
	counters := repository.NewCounterRepository(db)
	ctx := context.Background()
	sentinel := errors.New("boom")

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := counters.Increment(ctx, "outer.com", model.ActionAllowed); err != nil {
			return err
		}
		return tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := counters.Increment(ctx, "inner.com", model.ActionAllowed); err != nil {
				return err
			}
			return sentinel
		})
	})
	require.ErrorIs(t, err, sentinel)

	for _, key := range []string{"outer.com", "inner.com"} {
		c, err := counters.Get(ctx, key)
		require.NoError(t, err)
		require.Zero(t, c.Allowed, key)
	}
}
