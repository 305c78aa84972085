package main

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/persistorai/typegraph/internal/config"
	"github.com/persistorai/typegraph/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations to DATABASE_URL",
		Args:  cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// migrate reads only the server environment, not CLI config.
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.StorageEnabled() {
				return errors.New("DATABASE_URL is not set")
			}

			pool, version, err := openDatabase(context.Background(), cfg, newServerLogger(cfg.LogLevel))
			if err != nil {
				return err
			}
			defer pool.Close()

			output(map[string]any{
				"schema_version": version,
				"binary_version": db.SchemaVersion(),
			}, nil, strconv.FormatInt(version, 10))
			return nil
		},
	}
}
