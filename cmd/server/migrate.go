package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mathieu-neron/vixtube/internal/config"
	"github.com/mathieu-neron/vixtube/internal/db"
	"github.com/mathieu-neron/vixtube/internal/middleware"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		middleware.InitLogger(cfg.Log.Level, "vixtube-migrate")

		pool, err := db.NewPool(cmd.Context(), cfg.Database.URL, middleware.Component("db"))
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		if err := db.Migrate(cmd.Context(), pool); err != nil {
			return err
		}
		middleware.Logger.Info().Msg("schema applied")
		return nil
	},
}
