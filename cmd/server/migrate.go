package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/kbimport/internal/store"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		run, direction := store.MigrateUp, "up"
		if migrateDown {
			run, direction = store.MigrateDown, "down"
		}

		version, err := run(cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", direction, err)
		}
		slog.Info("migration complete",
			"direction", direction,
			"database", store.DatabaseName(cfg.Database.URL),
			"version", version,
		)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "roll back all migrations")
	rootCmd.AddCommand(migrateCmd)
}
