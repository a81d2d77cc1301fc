// Package catalog defines the persistent document store the pipeline writes
// to, and its PostgreSQL implementation.
package catalog

import "context"

// Document is any persistable catalog document.
type Document interface {
	// DocumentID returns the deterministic document id.
	DocumentID() string
	// DocumentKind returns the document kind discriminator.
	DocumentKind() string
	// DocumentSourceURL returns the source URL the document was derived from.
	DocumentSourceURL() string
}

// AssetOptions carries metadata for a binary asset upload.
type AssetOptions struct {
	Filename    string
	ContentType string
}

// Tx stages create-or-replace mutations and commits them atomically:
// either every staged document lands or none does.
type Tx interface {
	// CreateOrReplace stages an upsert for the document, keyed by its id.
	CreateOrReplace(doc Document) error
	// Commit applies all staged mutations and returns a transaction id.
	Commit(ctx context.Context) (string, error)
	// Rollback discards all staged mutations. Safe to call after Commit.
	Rollback() error
}

// Store is the persistent catalog collaborator.
type Store interface {
	// CountBySourceURL returns the number of documents of any kind whose
	// source URL equals the given URL.
	CountBySourceURL(ctx context.Context, sourceURL string) (int, error)
	// CreateAsset uploads binary media and returns an opaque asset id.
	CreateAsset(ctx context.Context, data []byte, opts AssetOptions) (string, error)
	// Begin opens a transaction for an atomic multi-document commit.
	Begin(ctx context.Context) (Tx, error)
	// Create inserts a single document. Used by the submission intake
	// surface, not by the batch pipeline.
	Create(ctx context.Context, doc Document) (string, error)
}
