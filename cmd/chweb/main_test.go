package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"chweb/internal/config"
	"chweb/internal/db"
	"chweb/internal/metrics"
	"chweb/internal/model"
	"chweb/internal/repository"
	"chweb/internal/service"
)

func executeRootCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestSetupCommand_SeedsDatabase(t *testing.T) {
	t.Setenv("CHWEB_COOKIE_SECRET", "setup-test-secret-0123456789")
	dbPath := filepath.Join(t.TempDir(), "chweb.db")

	out, err := executeRootCommand(t, "", "setup", "--db-path", dbPath)
	require.NoError(t, err)
	require.Contains(t, out, dbPath)

	database, err := db.Open(dbPath)
	require.NoError(t, err)
	defer database.Close()

	settings, err := repository.NewSettingsRepository(database).List(t.Context())
	require.NoError(t, err)
	require.Len(t, settings, len(db.DefaultSettings))
}

func TestUserAddCommand(t *testing.T) {
	t.Setenv("CHWEB_COOKIE_SECRET", "user-test-secret-0123456789")
	t.Setenv("CHWEB_PASSWORD_COST", "4")
	dbPath := filepath.Join(t.TempDir(), "chweb.db")

	t.Run("PasswordFromStdin", func(t *testing.T) {
		out, err := executeRootCommand(t, "hunter22\n", "user", "add", "--username", "admin", "--db-path", dbPath)
		require.NoError(t, err)
		require.Contains(t, out, "created user admin")
		require.Contains(t, out, "api key: ")
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := executeRootCommand(t, "", "user", "add", "--username", "admin", "--password", "other", "--db-path", dbPath)
		require.Error(t, err)
		require.Contains(t, err.Error(), "already exists")
	})

	t.Run("MissingUsername", func(t *testing.T) {
		_, err := executeRootCommand(t, "", "user", "add", "--password", "x", "--db-path", dbPath)
		require.Error(t, err)
	})
}

func TestUserPasswdAndDeleteCommands(t *testing.T) {
	t.Setenv("CHWEB_COOKIE_SECRET", "user-test-secret-0123456789")
	t.Setenv("CHWEB_PASSWORD_COST", "4")
	dbPath := filepath.Join(t.TempDir(), "chweb.db")

	_, err := executeRootCommand(t, "", "user", "add", "--username", "john  doe", "--password", "first", "--db-path", dbPath)
	require.NoError(t, err)

	authenticate := func(password string) error {
		database, err := db.Open(dbPath)
		require.NoError(t, err)
		defer database.Close()
		_, err = service.NewUserService(repository.NewUserRepository(database), 4).Authenticate(t.Context(), "john  doe", password)
		return err
	}

	t.Run("Passwd", func(t *testing.T) {
		out, err := executeRootCommand(t, "second\n", "user", "passwd", "--username", "john  doe", "--db-path", dbPath)
		require.NoError(t, err)
		require.Contains(t, out, "updated password for john doe")
		require.ErrorIs(t, authenticate("first"), service.ErrUnauthorized)
		require.NoError(t, authenticate("second"))
	})

	t.Run("PasswdEmpty", func(t *testing.T) {
		_, err := executeRootCommand(t, "\n", "user", "passwd", "--username", "john doe", "--db-path", dbPath)
		require.Error(t, err)
		require.Contains(t, err.Error(), "non-empty")
	})

	t.Run("Delete", func(t *testing.T) {
		out, err := executeRootCommand(t, "", "user", "delete", "--username", "john doe", "--db-path", dbPath)
		require.NoError(t, err)
		require.Contains(t, out, "deleted user john doe")
		require.ErrorIs(t, authenticate("second"), service.ErrUnauthorized)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := executeRootCommand(t, "", "user", "delete", "--username", "john doe", "--db-path", dbPath)
		require.Error(t, err)
		require.Contains(t, err.Error(), "not found")

		_, err = executeRootCommand(t, "", "user", "passwd", "--username", "ghost", "--password", "x", "--db-path", dbPath)
		require.Error(t, err)
		require.Contains(t, err.Error(), "not found")
	})
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	t.Setenv("CHWEB_PASSWORD_COST", "2")

	_, err := executeRootCommand(t, "", "setup", "--db-path", filepath.Join(t.TempDir(), "chweb.db"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "password.cost")
}

func TestNewServer(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "chweb.db"))
	require.NoError(t, err)
	defer database.Close()

	cfg := config.Config{
		CookieName:     "chweb",
		CookieSecret:   "server-test-secret-0123456789",
		PasswordCost:   4,
		MetricsEnabled: true,
	}
	e := newServer(database, cfg, metrics.New())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/hosts", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `chweb_auth_failures_total{realm="user"} 1`)
}

func TestDecisionGaugeJob(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "chweb.db"))
	require.NoError(t, err)
	defer database.Close()

	counters := repository.NewCounterRepository(database)
	for i := 0; i < 3; i++ {
		require.NoError(t, counters.Increment(t.Context(), model.GlobalCounterKey, model.ActionBlocked))
	}
	require.NoError(t, counters.Increment(t.Context(), model.GlobalCounterKey, model.ActionAllowed))

	m := metrics.New()
	require.NoError(t, decisionGaugeJob(counters, m)(t.Context()))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Decisions.WithLabelValues("allowed")))
	require.Equal(t, float64(3), testutil.ToFloat64(m.Decisions.WithLabelValues("blocked")))
}
