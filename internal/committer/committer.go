// Package committer persists routed documents to the catalog store in
// fixed-size atomic chunks.
package committer

import (
	"context"
	"time"

	"github.com/heytulsiprasad/clawdex/internal/catalog"
	"github.com/heytulsiprasad/clawdex/internal/logger"
	"github.com/heytulsiprasad/clawdex/internal/telemetry"
)

const defaultChunkSize = 10

// Committer writes documents to the catalog in chunked transactions.
// Each chunk commits atomically; a failed chunk never blocks the ones
// after it.
type Committer struct {
	store     catalog.Store
	logger    logger.Logger
	metrics   *telemetry.Metrics
	chunkSize int
}

// New creates a committer. metrics may be nil.
func New(store catalog.Store, chunkSize int, log logger.Logger, metrics *telemetry.Metrics) *Committer {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Committer{
		store:     store,
		logger:    log,
		metrics:   metrics,
		chunkSize: chunkSize,
	}
}

// Commit writes the documents in input order, one transaction per chunk.
// It returns the number of documents whose chunk failed; every document
// in a failed chunk counts once.
func (c *Committer) Commit(ctx context.Context, docs []catalog.Document) int {
	failed := 0
	for start := 0; start < len(docs); start += c.chunkSize {
		end := min(start+c.chunkSize, len(docs))
		chunk := docs[start:end]

		if err := c.commitChunk(ctx, chunk); err != nil {
			c.logger.Error("chunk commit failed",
				logger.Int("chunk_start", start),
				logger.Int("chunk_size", len(chunk)),
				logger.Error(err))
			failed += len(chunk)
		}
	}
	return failed
}

// commitChunk stages and commits one chunk atomically.
func (c *Committer) commitChunk(ctx context.Context, chunk []catalog.Document) error {
	started := time.Now()

	tx, err := c.store.Begin(ctx)
	if err != nil {
		c.metrics.RecordCommit(len(chunk), time.Since(started), err)
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after a successful commit

	for _, doc := range chunk {
		if err := tx.CreateOrReplace(doc); err != nil {
			c.metrics.RecordCommit(len(chunk), time.Since(started), err)
			return err
		}
	}

	txnID, err := tx.Commit(ctx)
	c.metrics.RecordCommit(len(chunk), time.Since(started), err)
	if err != nil {
		return err
	}

	c.logger.Debug("chunk committed",
		logger.String("txn_id", txnID),
		logger.Int("documents", len(chunk)))
	return nil
}
