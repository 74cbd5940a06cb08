package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"chweb/internal/repository"
	"chweb/internal/repository/testutil"
	"chweb/internal/service"

	"github.com/stretchr/testify/require"
)

func newSettingsService(t *testing.T) (service.SettingsService, func(key, value string)) {
	t.Helper()
	db := testutil.NewTestDB(t)
	svc := service.NewSettingsService(repository.NewSettingsRepository(db), repository.NewTransactor(db))
	return svc, func(key, value string) { testutil.SeedSetting(t, db, key, value) }
}

func TestSettingsService_AllAndGet(t *testing.T) {
	svc, seed := newSettingsService(t)
	ctx := context.Background()

	seed(service.KeyDefaultAction, `"REJECT"`)
	seed(service.KeyEnableAnalytics, `true`)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.JSONEq(t, `"REJECT"`, string(all[service.KeyDefaultAction]))

	value, err := svc.Get(ctx, service.KeyEnableAnalytics)
	require.NoError(t, err)
	require.JSONEq(t, `true`, string(value))

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestSettingsService_SaveBatch(t *testing.T) {
	svc, seed := newSettingsService(t)
	ctx := context.Background()

	seed(service.KeyDefaultAction, `"REJECT"`)
	seed(service.KeyEnableAnalytics, `true`)

	updated, err := svc.SaveBatch(ctx, []service.SettingInput{
		{Key: service.KeyDefaultAction, Value: json.RawMessage(`"ACCEPT"`)},
		{Key: "unknown", Value: json.RawMessage(`1`)},
	})
	require.NoError(t, err)
	require.Equal(t, []string{service.KeyDefaultAction}, updated)

	action, err := svc.DefaultAction(ctx)
	require.NoError(t, err)
	require.Equal(t, "ACCEPT", action)

	_, err = svc.Get(ctx, "unknown")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestSettingsService_SaveBatch_TrimsWithoutMutatingInput(t *testing.T) {
	svc, seed := newSettingsService(t)
	ctx := context.Background()

	seed(service.KeyDefaultAction, `"REJECT"`)

	items := []service.SettingInput{{Key: "  " + service.KeyDefaultAction + " ", Value: json.RawMessage(`"ACCEPT"`)}}
	updated, err := svc.SaveBatch(ctx, items)
	require.NoError(t, err)
	require.Equal(t, []string{service.KeyDefaultAction}, updated)
	require.Equal(t, "  "+service.KeyDefaultAction+" ", items[0].Key)

	action, err := svc.DefaultAction(ctx)
	require.NoError(t, err)
	require.Equal(t, "ACCEPT", action)
}

func TestSettingsService_SaveBatch_InvalidItemPersistsNothing(t *testing.T) {
	svc, seed := newSettingsService(t)
	ctx := context.Background()

	seed(service.KeyDefaultAction, `"REJECT"`)

	cases := [][]service.SettingInput{
		{{Key: service.KeyDefaultAction, Value: json.RawMessage(`"ACCEPT"`)}, {Key: "", Value: json.RawMessage(`1`)}},
		{{Key: service.KeyDefaultAction, Value: json.RawMessage(`"ACCEPT"`)}, {Key: "x"}},
		{{Key: service.KeyDefaultAction, Value: json.RawMessage(`{broken`)}},
	}
	for _, items := range cases {
		_, err := svc.SaveBatch(ctx, items)
		require.ErrorIs(t, err, service.ErrInvalid)
	}

	action, err := svc.DefaultAction(ctx)
	require.NoError(t, err)
	require.Equal(t, "REJECT", action)
}

func TestSettingsService_DefaultActionFallback(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		svc, _ := newSettingsService(t)
		action, err := svc.DefaultAction(context.Background())
		require.NoError(t, err)
		require.Equal(t, service.FallbackDefaultAction, action)
	})

	t.Run("not a string", func(t *testing.T) {
		svc, seed := newSettingsService(t)
		seed(service.KeyDefaultAction, `42`)
		action, err := svc.DefaultAction(context.Background())
		require.NoError(t, err)
		require.Equal(t, service.FallbackDefaultAction, action)
	})
}

func TestSettingsService_AnalyticsEnabled(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "missing", want: true},
		{name: "true", value: `true`, want: true},
		{name: "false", value: `false`, want: false},
		{name: "not a bool", value: `"no"`, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, seed := newSettingsService(t)
			if tc.value != "" {
				seed(service.KeyEnableAnalytics, tc.value)
			}
			got, err := svc.AnalyticsEnabled(context.Background())
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
