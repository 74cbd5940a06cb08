package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"chweb/internal/config"
	"chweb/internal/db"
	"chweb/pkg/logger"
	"chweb/pkg/snowflake"
)

func newRootCommand() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:           "chweb",
		Short:         "Admin API for access-control rules, filtering hosts and allow/block counters",
		SilenceErrors: true,
		SilenceUsage:  true,
		Example: `
  # Create the database and a first admin, then serve on :3000
  chweb setup
  chweb user add --username admin
  CHWEB_COOKIE_SECRET=change-me-to-something-long chweb serve

  # Read settings from a file, overriding the data directory
  chweb serve --config /etc/chweb.yaml --data-dir /var/lib/chweb
`,
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.String("data-dir", "", "directory holding the database")
	flags.String("db-path", "", "database file, defaults to <data-dir>/chweb.db")
	flags.String("log-level", "", "debug, info, warn or error")
	bindFlags(v, flags, map[string]string{
		"data_dir":  "data-dir",
		"db_path":   "db-path",
		"log_level": "log-level",
	})

	cmd.AddCommand(
		newServeCommand(v),
		newSetupCommand(v),
		newUserCommand(v),
	)
	return cmd
}

// bindFlags binds each viper key to the flag of the given name.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

// loadConfig reads the --config file, if any, and builds the Config.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(v, path)
	if err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Init(logger.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

// openStore opens and seeds the database named by cfg.
func openStore(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if err := snowflake.Init(cfg.SnowflakeNode); err != nil {
		return nil, err
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	seeded, err := db.Seed(ctx, database)
	if err != nil {
		database.Close()
		return nil, err
	}
	if len(seeded.Settings) > 0 || seeded.GlobalCounter {
		logger.Info("seeded database", "module", "cmd", "action", "seed", "path", cfg.DBPath, "settings", seeded.Settings, "global_counter", seeded.GlobalCounter)
	}
	return database, nil
}
