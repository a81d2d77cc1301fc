package committer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heytulsiprasad/clawdex/internal/catalog"
	"github.com/heytulsiprasad/clawdex/internal/logger"
	"github.com/heytulsiprasad/clawdex/internal/testhelpers"
)

type testDoc struct {
	ID string `json:"id"`
}

func (d testDoc) DocumentID() string        { return d.ID }
func (d testDoc) DocumentKind() string      { return "useCase" }
func (d testDoc) DocumentSourceURL() string { return "https://example.com/" + d.ID }

func docs(n int) []catalog.Document {
	out := make([]catalog.Document, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, testDoc{ID: fmt.Sprintf("entry-%02d", i)})
	}
	return out
}

func TestCommit_AllInOneChunk(t *testing.T) {
	store := testhelpers.NewMockStore()
	c := New(store, 10, logger.NewNop(), nil)

	failed := c.Commit(context.Background(), docs(7))

	assert.Zero(t, failed)
	assert.Equal(t, 1, store.CommitCount())
	assert.Len(t, store.Documents(), 7)
}

func TestCommit_SplitsIntoChunks(t *testing.T) {
	store := testhelpers.NewMockStore()
	c := New(store, 10, logger.NewNop(), nil)

	failed := c.Commit(context.Background(), docs(25))

	assert.Zero(t, failed)
	assert.Equal(t, 3, store.CommitCount(), "25 documents at chunk size 10 need 3 transactions")
	assert.Len(t, store.Documents(), 25)
}

func TestCommit_FailedChunkIsIsolated(t *testing.T) {
	store := testhelpers.NewMockStore()
	store.FailCommitSeq[2] = true
	c := New(store, 10, logger.NewNop(), nil)

	failed := c.Commit(context.Background(), docs(25))

	assert.Equal(t, 10, failed, "every document in the failed chunk counts once")
	assert.Equal(t, 3, store.CommitCount(), "later chunks still commit")
	assert.Len(t, store.Documents(), 15)

	// The failed middle chunk left no partial writes behind.
	_, ok := store.Document("entry-12")
	assert.False(t, ok)
	_, ok = store.Document("entry-20")
	assert.True(t, ok)
}

func TestCommit_EmptyInput(t *testing.T) {
	store := testhelpers.NewMockStore()
	c := New(store, 10, logger.NewNop(), nil)

	failed := c.Commit(context.Background(), nil)

	assert.Zero(t, failed)
	assert.Zero(t, store.CommitCount())
}
