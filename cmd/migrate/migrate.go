// Package migrate implements the migrate command, which applies the catalog
// database schema.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heytulsiprasad/clawdex/internal/catalog"
	"github.com/heytulsiprasad/clawdex/internal/config"
	"github.com/heytulsiprasad/clawdex/internal/logger"
)

// Command returns the migrate command. cfgFile points at the root command's
// persistent config flag.
func Command(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the catalog database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			log, err := logger.New(cfg.Logging)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			store, err := catalog.NewPostgresStore(catalog.Config{
				Host:         cfg.Catalog.Host,
				Port:         cfg.Catalog.Port,
				User:         cfg.Catalog.User,
				Password:     cfg.Catalog.Password,
				DBName:       cfg.Catalog.Database,
				SSLMode:      cfg.Catalog.SSLMode,
				QueryTimeout: cfg.Catalog.QueryTimeout,
			})
			if err != nil {
				return fmt.Errorf("connect to catalog: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			log.Info("catalog schema applied",
				logger.String("database", cfg.Catalog.Database))
			return nil
		},
	}
}
