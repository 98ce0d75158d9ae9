package main

import (
	"github.com/spf13/cobra"

	"github.com/Medard30/StudyLoop/internal/config"
	"github.com/Medard30/StudyLoop/internal/db"
	"github.com/Medard30/StudyLoop/internal/middleware"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			middleware.InitLogger(cfg.LogLevel, "studyloop")

			pool, err := db.NewPool(cmd.Context(), cfg.DatabaseURL, middleware.Logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			return migrate(cmd.Context(), pool, middleware.Logger)
		},
	}
}
