package pipeline

import (
	"context"
	"fmt"

	"github.com/heytulsiprasad/clawdex/internal/catalog"
	"github.com/heytulsiprasad/clawdex/internal/domain"
	"github.com/heytulsiprasad/clawdex/internal/logger"
	"github.com/heytulsiprasad/clawdex/internal/router"
	"github.com/heytulsiprasad/clawdex/internal/telemetry"
)

// Router turns one batch into documents and counters.
type Router interface {
	Route(ctx context.Context, batch domain.DiscoveryBatch) router.Result
}

// Committer persists routed documents, returning how many failed.
type Committer interface {
	Commit(ctx context.Context, docs []catalog.Document) int
}

// Driver runs discovery batches through routing and persistence
// sequentially, in input order.
type Driver struct {
	router    Router
	committer Committer
	logger    logger.Logger
	metrics   *telemetry.Metrics
}

// NewDriver creates a batch driver. metrics may be nil.
func NewDriver(r Router, c Committer, log logger.Logger, metrics *telemetry.Metrics) *Driver {
	return &Driver{
		router:    r,
		committer: c,
		logger:    log,
		metrics:   metrics,
	}
}

// Run processes every batch and returns the aggregate counters. A batch with
// zero items is valid and contributes nothing. The returned error is non-nil
// exactly when at least one item errored, so callers can map it to a
// failing exit status.
func (d *Driver) Run(ctx context.Context, batches []domain.DiscoveryBatch) (domain.Stats, error) {
	var total domain.Stats

	for i, batch := range batches {
		d.logger.Info("processing batch",
			logger.Int("batch", i+1),
			logger.Int("batches", len(batches)),
			logger.String("run_id", batch.RunID),
			logger.String("platform", batch.Platform),
			logger.Int("items", len(batch.Items)))
		d.metrics.RecordBatchSize(len(batch.Items))

		result := d.router.Route(ctx, batch)
		result.Stats.Errors += d.committer.Commit(ctx, result.Documents)
		total.Merge(result.Stats)

		d.logBatchSummary(batch.RunID, result.Stats)
	}

	d.logger.Info("ingestion run complete",
		logger.Int("batches", len(batches)),
		logger.Int("auto_published", total.AutoPublished),
		logger.Int("submitted_for_review", total.SubmittedForReview),
		logger.Int("skipped", total.Skipped),
		logger.Int("duplicates", total.Duplicates),
		logger.Int("errors", total.Errors))

	if total.Errors > 0 {
		return total, fmt.Errorf("%d of %d items failed", total.Errors, total.Total())
	}
	return total, nil
}

func (d *Driver) logBatchSummary(runID string, stats domain.Stats) {
	d.logger.Info("batch complete",
		logger.String("run_id", runID),
		logger.Int("auto_published", stats.AutoPublished),
		logger.Int("submitted_for_review", stats.SubmittedForReview),
		logger.Int("skipped", stats.Skipped),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("errors", stats.Errors))
}
