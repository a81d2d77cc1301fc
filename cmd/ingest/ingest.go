// Package ingest implements the ingest command, which routes a discovery
// batch file into the catalog.
package ingest

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/heytulsiprasad/clawdex/internal/builder"
	"github.com/heytulsiprasad/clawdex/internal/catalog"
	"github.com/heytulsiprasad/clawdex/internal/committer"
	"github.com/heytulsiprasad/clawdex/internal/config"
	"github.com/heytulsiprasad/clawdex/internal/dedup"
	"github.com/heytulsiprasad/clawdex/internal/domain"
	"github.com/heytulsiprasad/clawdex/internal/logger"
	"github.com/heytulsiprasad/clawdex/internal/media"
	"github.com/heytulsiprasad/clawdex/internal/pipeline"
	"github.com/heytulsiprasad/clawdex/internal/router"
	"github.com/heytulsiprasad/clawdex/internal/telemetry"
)

// Command returns the ingest command. cfgFile points at the root command's
// persistent config flag.
func Command(cfgFile *string) *cobra.Command {
	var (
		inputPath   string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Route a discovery batch file into the catalog",
		Long: `Reads a JSON file holding one discovery batch or an array of batches,
routes every candidate (publish, queue for review, skip, or drop as a
duplicate), and commits the resulting documents in atomic chunks.

Exits non-zero when any item fails; skips and duplicates are normal
outcomes, not failures.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, *cfgFile, inputPath, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "path to the discovery batch JSON file")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "",
		"listen address for /metrics (overrides config; empty disables)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func run(cmd *cobra.Command, cfgFile, inputPath, metricsAddr string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Parse the whole input before touching the store.
	batches, err := pipeline.LoadBatches(inputPath)
	if err != nil {
		return err
	}

	store, err := catalog.NewPostgresStore(catalog.Config{
		Host:            cfg.Catalog.Host,
		Port:            cfg.Catalog.Port,
		User:            cfg.Catalog.User,
		Password:        cfg.Catalog.Password,
		DBName:          cfg.Catalog.Database,
		SSLMode:         cfg.Catalog.SSLMode,
		MaxOpenConns:    cfg.Catalog.MaxConnections,
		MaxIdleConns:    cfg.Catalog.MaxIdleConns,
		ConnMaxLifetime: cfg.Catalog.ConnMaxLifetime,
		QueryTimeout:    cfg.Catalog.QueryTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to catalog: %w", err)
	}
	defer func() { _ = store.Close() }()

	metrics := telemetry.NewMetrics()
	metrics.Serve(ctx, cfg.Metrics.Addr, log)

	transcoder := media.NewTranscoder(store, media.Config{
		FetchTimeout: cfg.Media.FetchTimeout,
		FetchRPS:     cfg.Media.FetchRPS,
		MaxImages:    cfg.Media.MaxImages,
		MaxVideos:    cfg.Media.MaxVideos,
	}, log)

	engine := router.NewEngine(
		dedup.NewChecker(store, log),
		builder.NewEntryBuilder(transcoder, log),
		log,
		metrics,
	)
	persister := committer.New(store, cfg.Ingest.ChunkSize, log, metrics)
	driver := pipeline.NewDriver(engine, persister, log, metrics)

	log.Info("starting ingestion run",
		logger.String("input", inputPath),
		logger.Int("batches", len(batches)))

	stats, runErr := driver.Run(ctx, batches)
	printSummary(cmd.OutOrStdout(), stats)
	if runErr != nil {
		return fmt.Errorf("ingestion run: %w", runErr)
	}
	return nil
}

// printSummary writes the end-of-run counters as a readable table.
func printSummary(w io.Writer, stats domain.Stats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OUTCOME\tCOUNT")
	fmt.Fprintf(tw, "auto-published\t%d\n", stats.AutoPublished)
	fmt.Fprintf(tw, "submitted for review\t%d\n", stats.SubmittedForReview)
	fmt.Fprintf(tw, "skipped\t%d\n", stats.Skipped)
	fmt.Fprintf(tw, "duplicates\t%d\n", stats.Duplicates)
	fmt.Fprintf(tw, "errors\t%d\n", stats.Errors)
	fmt.Fprintf(tw, "total\t%d\n", stats.Total())
	_ = tw.Flush()
}
