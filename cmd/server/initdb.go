package main

import (
	"context"

	"github.com/spf13/cobra"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create tables and seed default products, settings, ponds and flock",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		if err := a.store.Migrate(cmd.Context()); err != nil {
			return err
		}
		if err := a.store.Seed(cmd.Context(), a.engine.Today()); err != nil {
			return err
		}
		a.logger.Info("database ready")
		return nil
	},
}
