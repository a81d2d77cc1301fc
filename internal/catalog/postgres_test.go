package catalog

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDoc is a minimal Document for store tests.
type testDoc struct {
	ID        string `json:"_id"`
	Kind      string `json:"kind"`
	SourceURL string `json:"sourceUrl"`
	Payload   string `json:"payload"`
}

func (d *testDoc) DocumentID() string        { return d.ID }
func (d *testDoc) DocumentKind() string      { return d.Kind }
func (d *testDoc) DocumentSourceURL() string { return d.SourceURL }

// setupTestStore connects to a local test database or skips the test.
// Set CLAWDEX_TEST_DSN to customize the connection.
func setupTestStore(t *testing.T) (*PostgresStore, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dsn := "host=localhost port=5432 user=postgres password=postgres dbname=clawdex_test sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping test: could not connect to test database: %v", err)
	}

	store := NewPostgresStoreFromDB(db)
	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		t.Skipf("Skipping test: could not migrate test database: %v", err)
	}

	cleanup := func() {
		_, _ = db.ExecContext(ctx, "TRUNCATE TABLE documents, assets")
		db.Close()
	}
	return store, cleanup
}

func TestPostgresStore_CreateAndCount(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := &testDoc{ID: "entry-test-one", Kind: "useCase", SourceURL: "https://example.com/p/1"}
	id, err := store.Create(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, "entry-test-one", id)

	// Same id again must fail.
	_, err = store.Create(ctx, doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateID)

	count, err := store.CountBySourceURL(ctx, "https://example.com/p/1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = store.CountBySourceURL(ctx, "https://example.com/p/absent")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPostgresStore_TransactionReplaces(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	first := &testDoc{ID: "entry-replace", Kind: "useCase", SourceURL: "https://example.com/p/2", Payload: "v1"}
	require.NoError(t, tx.CreateOrReplace(first))

	txnID, err := tx.Commit(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, txnID)

	// Replacing by the same id must not create a second row.
	tx, err = store.Begin(ctx)
	require.NoError(t, err)
	second := &testDoc{ID: "entry-replace", Kind: "useCase", SourceURL: "https://example.com/p/2", Payload: "v2"}
	require.NoError(t, tx.CreateOrReplace(second))
	_, err = tx.Commit(ctx)
	require.NoError(t, err)

	count, err := store.CountBySourceURL(ctx, "https://example.com/p/2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPostgresStore_RollbackDiscardsStagedDocuments(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	doc := &testDoc{ID: "entry-rolled-back", Kind: "useCase", SourceURL: "https://example.com/p/3"}
	require.NoError(t, tx.CreateOrReplace(doc))
	require.NoError(t, tx.Rollback())

	count, err := store.CountBySourceURL(ctx, "https://example.com/p/3")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPostgresStore_CreateAsset(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.CreateAsset(ctx, []byte{0xFF, 0xD8, 0xFF}, AssetOptions{
		Filename:    "someone-abc123-0.jpg",
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	assert.Contains(t, id, "asset-")
}
