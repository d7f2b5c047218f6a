package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/bike-hunter/internal/store"
)

const migrateTimeout = 60 * time.Second

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()

			st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer st.Close()

			log.Info("running migrations", "host", cfg.Database.Host, "database", cfg.Database.Name)
			if err := st.Migrate(ctx); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}
			log.Info("migrations complete")
			return nil
		},
	}
}
