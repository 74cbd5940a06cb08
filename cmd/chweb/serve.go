package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chweb/internal/config"
	"chweb/internal/handler"
	gh "chweb/internal/http"
	"chweb/internal/metrics"
	"chweb/internal/model"
	"chweb/internal/repository"
	"chweb/internal/scheduler"
	"chweb/internal/service"
	"chweb/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	gaugeInterval   = 30 * time.Second
)

func newServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "", "listen address (default :3000)")
	flags.Bool("metrics", true, "expose /metrics")
	flags.Bool("swagger", false, "expose /swagger/*")
	bindFlags(v, flags, map[string]string{
		"addr":            "addr",
		"metrics.enabled": "metrics",
		"swagger.enabled": "swagger",
	})
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	if cfg.GeneratedSecret {
		logger.Warn("cookie.secret not set, using a random secret; sessions end when the process restarts", "module", "cmd")
	}

	database, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	m := metrics.New()
	e := newServer(database, cfg, m)
	if cfg.MetricsEnabled {
		gauges := scheduler.New("decision-gauges", decisionGaugeJob(repository.NewCounterRepository(database), m), gaugeInterval)
		gauges.Start()
		defer gauges.Stop()
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "module", "cmd", "addr", cfg.Addr, "db", cfg.DBPath)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "module", "cmd")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newServer wires repositories, services and handlers into the router.
func newServer(database *sql.DB, cfg config.Config, m *metrics.Metrics) *echo.Echo {
	tx := repository.NewTransactor(database)
	userRepo := repository.NewUserRepository(database)
	hostRepo := repository.NewHostRepository(database)
	ruleRepo := repository.NewRuleRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)
	counterRepo := repository.NewCounterRepository(database)

	userService := service.NewUserService(userRepo, cfg.PasswordCost)
	hostService := service.NewHostService(hostRepo)
	ruleService := service.NewRuleService(ruleRepo, tx)
	settingsService := service.NewSettingsService(settingsRepo, tx)
	analyticsService := service.NewAnalyticsService(counterRepo, hostRepo, settingsService, tx)
	clientService := service.NewClientService(hostRepo, ruleRepo, settingsService)

	signer := service.NewSessionSigner(cfg.CookieSecret)

	handlers := handler.Handlers{
		Hosts:     handler.NewHostHandler(hostService),
		Rules:     handler.NewRuleHandler(ruleService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
		Users:     handler.NewUserHandler(userService, signer, cfg.CookieName),
		Client:    handler.NewClientHandler(clientService),
	}

	return gh.NewRouter(handlers, userService, hostService, signer, gh.RouterOptions{
		CookieName:     cfg.CookieName,
		Metrics:        m,
		MetricsEnabled: cfg.MetricsEnabled,
		SwaggerEnabled: cfg.SwaggerEnabled,
	})
}

// decisionGaugeJob copies the global counter into the decisions gauge.
func decisionGaugeJob(counters repository.CounterRepository, m *metrics.Metrics) scheduler.Job {
	return func(ctx context.Context) error {
		global, err := counters.Get(ctx, model.GlobalCounterKey)
		if err != nil {
			return err
		}
		m.SetDecisions(global.Allowed, global.Blocked)
		return nil
	}
}
