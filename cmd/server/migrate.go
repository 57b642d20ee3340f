package main

import (
	"fmt"

	"github.com/jengzang/thinking-wizard-backend-go/internal/database"
	"github.com/jengzang/thinking-wizard-backend-go/internal/logging"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.Open(database.Config{Path: cfg.Database.Path})
			if err != nil {
				return err
			}
			defer db.Close()

			mm := database.NewMigrationManager(db)
			if err := mm.RunMigrations(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			applied, err := mm.GetAppliedMigrations()
			if err != nil {
				return err
			}
			logging.Info().Int("applied", len(applied)).Str("db", cfg.Database.Path).Msg("Database is up to date")
			return nil
		},
	}
}
