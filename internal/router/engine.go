// Package router implements the per-candidate routing decision: discard,
// auto-publish, or queue for human review.
package router

import (
	"context"
	"time"

	"github.com/heytulsiprasad/clawdex/internal/builder"
	"github.com/heytulsiprasad/clawdex/internal/catalog"
	"github.com/heytulsiprasad/clawdex/internal/domain"
	"github.com/heytulsiprasad/clawdex/internal/logger"
	"github.com/heytulsiprasad/clawdex/internal/telemetry"
)

// ConfidenceThreshold splits auto-publish from queue-for-review. The
// boundary is inclusive on the publish side: exactly 0.8 publishes.
const ConfidenceThreshold = 0.8

// DuplicateChecker reports whether a source URL is already in the catalog.
type DuplicateChecker interface {
	IsDuplicate(ctx context.Context, sourceURL string) (bool, error)
}

// EntryBuilder builds a published entry document from a candidate.
type EntryBuilder interface {
	Build(ctx context.Context, item domain.CandidateItem) (*domain.PublishedEntry, error)
}

// Result holds the documents to commit and the routing counters for one
// batch.
type Result struct {
	Documents []catalog.Document
	Stats     domain.Stats
}

// Engine routes every candidate in a batch to exactly one terminal outcome.
type Engine struct {
	dedup   DuplicateChecker
	entries EntryBuilder
	logger  logger.Logger
	metrics *telemetry.Metrics
	now     func() time.Time
}

// NewEngine creates a routing engine. metrics may be nil.
func NewEngine(dedup DuplicateChecker, entries EntryBuilder, log logger.Logger, metrics *telemetry.Metrics) *Engine {
	return &Engine{
		dedup:   dedup,
		entries: entries,
		logger:  log,
		metrics: metrics,
		now:     time.Now,
	}
}

// Route processes a batch sequentially in input order. Checks run in a fixed
// order: relevance, then duplication, then confidence, so an irrelevant item
// never consumes a duplicate query. Build failures are isolated to the item.
//
// The store-level duplicate check only sees previously committed documents,
// so candidates within the same batch are additionally deduplicated against
// each other through an in-memory seen-set keyed by source URL.
func (e *Engine) Route(ctx context.Context, batch domain.DiscoveryBatch) Result {
	result := Result{}
	seen := make(map[string]struct{}, len(batch.Items))

	for i, item := range batch.Items {
		outcome := e.routeItem(ctx, item, seen, &result)
		e.metrics.RecordOutcome(outcome, batch.Platform)
		e.logger.Info("candidate routed",
			logger.String("run_id", batch.RunID),
			logger.Int("item", i+1),
			logger.Int("total", len(batch.Items)),
			logger.String("source_url", item.SourceURL),
			logger.Float64("confidence", item.Enrichment.Confidence),
			logger.String("outcome", outcome))
	}

	return result
}

// routeItem walks one candidate to its terminal state, updating counters and
// the documents-to-commit list.
func (e *Engine) routeItem(
	ctx context.Context,
	item domain.CandidateItem,
	seen map[string]struct{},
	result *Result,
) string {
	if !item.Enrichment.IsRelevant {
		result.Stats.Skipped++
		return telemetry.OutcomeSkipped
	}

	if item.SourceURL != "" {
		if _, dup := seen[item.SourceURL]; dup {
			result.Stats.Duplicates++
			return telemetry.OutcomeDuplicate
		}
		seen[item.SourceURL] = struct{}{}
	}

	dup, err := e.dedup.IsDuplicate(ctx, item.SourceURL)
	if err != nil {
		// Fail open: a transient query error must not block the batch. The
		// worst case is a duplicate entry, which create-or-replace semantics
		// and later review can correct.
		e.logger.Warn("duplicate check failed, treating candidate as new",
			logger.String("source_url", item.SourceURL),
			logger.Error(err))
		dup = false
	}
	if dup {
		result.Stats.Duplicates++
		return telemetry.OutcomeDuplicate
	}

	if item.Enrichment.Confidence >= ConfidenceThreshold {
		entry, buildErr := e.entries.Build(ctx, item)
		if buildErr != nil {
			e.logger.Error("published entry build failed",
				logger.String("source_url", item.SourceURL),
				logger.Error(buildErr))
			result.Stats.Errors++
			return telemetry.OutcomeError
		}
		result.Documents = append(result.Documents, entry)
		result.Stats.AutoPublished++
		return telemetry.OutcomePublished
	}

	sub, buildErr := builder.BuildPendingSubmission(item, e.now())
	if buildErr != nil {
		e.logger.Error("pending submission build failed",
			logger.String("source_url", item.SourceURL),
			logger.Error(buildErr))
		result.Stats.Errors++
		return telemetry.OutcomeError
	}
	result.Documents = append(result.Documents, sub)
	result.Stats.SubmittedForReview++
	return telemetry.OutcomeQueued
}
