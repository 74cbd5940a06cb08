package service_test

import (
	"context"
	"testing"
	"time"

	"chweb/internal/model"
	"chweb/internal/repository"
	"chweb/internal/repository/testutil"
	"chweb/internal/service"

	"github.com/stretchr/testify/require"
)

func TestClientService_Config(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	hosts := repository.NewHostRepository(db)
	settings := service.NewSettingsService(repository.NewSettingsRepository(db), repository.NewTransactor(db))
	svc := service.NewClientService(hosts, repository.NewRuleRepository(db), settings)

	seenAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	service.SetClientClock(svc, func() time.Time { return seenAt })

	host := testutil.SeedHost(t, db, model.Host{Name: "gateway"})
	testutil.SeedSetting(t, db, service.KeyDefaultAction, `"ACCEPT"`)
	first := testutil.SeedRule(t, db, model.Rule{Type: "domain", Action: "REJECT", Host: "ads.example"})
	second := testutil.SeedRule(t, db, model.Rule{Type: "domain", Action: "ACCEPT", Host: "ok.example"})

	cfg, err := svc.Config(ctx, host.ID)
	require.NoError(t, err)
	require.Equal(t, "ACCEPT", cfg.DefaultAction)
	require.Len(t, cfg.Rules, 2)
	require.Equal(t, first, cfg.Rules[0].ID)
	require.Equal(t, second, cfg.Rules[1].ID)

	got, err := hosts.GetByID(ctx, host.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSeen)
	require.True(t, seenAt.Equal(*got.LastSeen))
}

func TestClientService_Config_Fallback(t *testing.T) {
	db := testutil.NewTestDB(t)
	settings := service.NewSettingsService(repository.NewSettingsRepository(db), repository.NewTransactor(db))
	svc := service.NewClientService(repository.NewHostRepository(db), repository.NewRuleRepository(db), settings)

	host := testutil.SeedHost(t, db, model.Host{Name: "gateway"})

	cfg, err := svc.Config(context.Background(), host.ID)
	require.NoError(t, err)
	require.Equal(t, "REJECT", cfg.DefaultAction)
	require.NotNil(t, cfg.Rules)
	require.Empty(t, cfg.Rules)
}

func TestClientService_Config_UnknownHost(t *testing.T) {
	db := testutil.NewTestDB(t)
	settings := service.NewSettingsService(repository.NewSettingsRepository(db), repository.NewTransactor(db))
	svc := service.NewClientService(repository.NewHostRepository(db), repository.NewRuleRepository(db), settings)

	_, err := svc.Config(context.Background(), 99)
	require.ErrorIs(t, err, service.ErrNotFound)
}
