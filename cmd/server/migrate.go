package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hongminglow/taskboard/internal/config"
	"github.com/hongminglow/taskboard/internal/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Store != config.StorePostgres {
			return errors.New("migrate requires STORE=postgres")
		}
		store, err := postgres.Open(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("init database: %w", err)
		}
		defer store.Close()

		if err := store.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("schema is up to date")
		return nil
	},
}
