package main

import (
	"github.com/spf13/cobra"

	"github.com/guncad/market-server-go/internal/config"
	"github.com/guncad/market-server-go/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations(database.DirectionUp)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations(database.DirectionDown)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func runMigrations(direction database.Direction) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return database.Migrate(cfg.DatabaseURL, direction)
}
