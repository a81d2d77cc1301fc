// Package cmd implements the command-line interface for the clawdex
// discovery ingestion pipeline.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/heytulsiprasad/clawdex/cmd/ingest"
	"github.com/heytulsiprasad/clawdex/cmd/migrate"
)

const version = "1.0.0"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "clawdex",
		Short: "Discovery ingestion pipeline for the clawdex directory",
		Long: `Routes AI-enriched discovery batches into the clawdex catalog:
high-confidence candidates auto-publish, the rest queue for human review.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to config loading.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yml)",
	)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clawdex version %s\n", version)
		},
	})

	rootCmd.AddCommand(ingest.Command(&cfgFile))
	rootCmd.AddCommand(migrate.Command(&cfgFile))
}
