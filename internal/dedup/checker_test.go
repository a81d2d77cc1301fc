package dedup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heytulsiprasad/clawdex/internal/logger"
	"github.com/heytulsiprasad/clawdex/internal/testhelpers"
)

func TestChecker_IsDuplicate(t *testing.T) {
	store := testhelpers.NewMockStore()
	store.SeedDocument("entry-existing", "useCase", "https://x.com/a/status/1")
	checker := NewChecker(store, logger.NewNop())
	ctx := context.Background()

	dup, err := checker.IsDuplicate(ctx, "https://x.com/a/status/1")
	require.NoError(t, err)
	assert.True(t, dup)

	dup, err = checker.IsDuplicate(ctx, "https://x.com/a/status/2")
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestChecker_QueryErrorIsReturned(t *testing.T) {
	store := testhelpers.NewMockStore()
	store.CountErr = errors.New("connection refused")
	checker := NewChecker(store, logger.NewNop())

	dup, err := checker.IsDuplicate(context.Background(), "https://x.com/a/status/3")
	require.Error(t, err)
	assert.False(t, dup, "checker itself reports false; fail-open policy belongs to the caller")
}
