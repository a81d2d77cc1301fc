// Package dedup decides whether a candidate's source URL already exists in
// the catalog, as a published entry or a pending submission.
package dedup

import (
	"context"
	"fmt"

	"github.com/heytulsiprasad/clawdex/internal/catalog"
	"github.com/heytulsiprasad/clawdex/internal/logger"
)

// Checker queries the catalog store for previously committed documents with
// a matching source URL.
type Checker struct {
	store  catalog.Store
	logger logger.Logger
}

// NewChecker creates a duplicate checker backed by the given store.
func NewChecker(store catalog.Store, log logger.Logger) *Checker {
	return &Checker{store: store, logger: log}
}

// IsDuplicate reports whether sourceURL already exists in the catalog. A
// store query error is returned to the caller; the routing engine decides
// the fail-open policy, not this checker.
func (c *Checker) IsDuplicate(ctx context.Context, sourceURL string) (bool, error) {
	count, err := c.store.CountBySourceURL(ctx, sourceURL)
	if err != nil {
		return false, fmt.Errorf("duplicate query for %s: %w", sourceURL, err)
	}

	if count > 0 {
		c.logger.Debug("source url already in catalog",
			logger.String("source_url", sourceURL),
			logger.Int("count", count))
	}
	return count > 0, nil
}
