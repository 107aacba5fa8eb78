package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zenirmoveis/assistant/internal/repo"
	pkgconfig "github.com/zenirmoveis/assistant/pkg/config"
	"github.com/zenirmoveis/assistant/pkg/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the clients and products tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := pkgconfig.Load()
			if err := pkgconfig.NonEmpty(cfg.DatabaseURL, "DATABASE_URL"); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db init error: %w", err)
			}
			defer func() { _ = db.Close(gdb) }()

			if err := (&repo.GormRepo{DB: gdb}).Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s database\n", cfg.DBDriver)
			return nil
		},
	}
}
