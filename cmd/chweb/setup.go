package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSetupCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the database and write default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			database, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "database ready at %s\n", cfg.DBPath)
			return err
		},
	}
}
