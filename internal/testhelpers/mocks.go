// Package testhelpers provides shared test utilities for the ingestion
// pipeline, including an in-memory catalog store with failure injection.
package testhelpers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/heytulsiprasad/clawdex/internal/catalog"
)

// StoredDocument is one document held by the mock store.
type StoredDocument struct {
	ID        string
	Kind      string
	SourceURL string
	Body      json.RawMessage
}

// StoredAsset is one uploaded asset held by the mock store.
type StoredAsset struct {
	ID          string
	Filename    string
	ContentType string
	Data        []byte
}

// MockStore implements catalog.Store in memory for testing.
//
// Failure injection: CountErr makes every CountBySourceURL fail; AssetErr
// makes every CreateAsset fail; FailCommitSeq holds 1-based commit sequence
// numbers whose Commit should fail.
type MockStore struct {
	mu     sync.Mutex
	docs   map[string]StoredDocument
	assets []StoredAsset

	CountErr      error
	AssetErr      error
	FailCommitSeq map[int]bool

	commitCount int
	assetSeq    int
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		docs:          make(map[string]StoredDocument),
		FailCommitSeq: make(map[int]bool),
	}
}

// SeedDocument inserts a document directly (for test setup).
func (m *MockStore) SeedDocument(id, kind, sourceURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = StoredDocument{ID: id, Kind: kind, SourceURL: sourceURL}
}

// CountBySourceURL counts stored documents with the given source URL.
func (m *MockStore) CountBySourceURL(_ context.Context, sourceURL string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	count := 0
	for _, doc := range m.docs {
		if doc.SourceURL == sourceURL {
			count++
		}
	}
	return count, nil
}

// CreateAsset records the upload and returns a deterministic asset id.
func (m *MockStore) CreateAsset(_ context.Context, data []byte, opts catalog.AssetOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AssetErr != nil {
		return "", m.AssetErr
	}
	m.assetSeq++
	id := fmt.Sprintf("asset-%d", m.assetSeq)
	m.assets = append(m.assets, StoredAsset{
		ID:          id,
		Filename:    opts.Filename,
		ContentType: opts.ContentType,
		Data:        data,
	})
	return id, nil
}

// Create inserts a single document, failing on an existing id.
func (m *MockStore) Create(_ context.Context, doc catalog.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.docs[doc.DocumentID()]; exists {
		return "", fmt.Errorf("document %s already exists", doc.DocumentID())
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	m.docs[doc.DocumentID()] = StoredDocument{
		ID:        doc.DocumentID(),
		Kind:      doc.DocumentKind(),
		SourceURL: doc.DocumentSourceURL(),
		Body:      body,
	}
	return doc.DocumentID(), nil
}

// Begin opens a staged transaction against the mock store.
func (m *MockStore) Begin(_ context.Context) (catalog.Tx, error) {
	return &mockTx{store: m}, nil
}

// Documents returns a snapshot of all stored documents.
func (m *MockStore) Documents() []StoredDocument {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StoredDocument, 0, len(m.docs))
	for _, doc := range m.docs {
		out = append(out, doc)
	}
	return out
}

// Document returns the stored document with the given id.
func (m *MockStore) Document(id string) (StoredDocument, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	return doc, ok
}

// Assets returns a snapshot of all uploaded assets.
func (m *MockStore) Assets() []StoredAsset {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StoredAsset, len(m.assets))
	copy(out, m.assets)
	return out
}

// CommitCount returns how many Commit calls have been attempted.
func (m *MockStore) CommitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commitCount
}

// mockTx stages documents and applies them on Commit, all or nothing.
type mockTx struct {
	store  *MockStore
	staged []catalog.Document
	done   bool
}

func (t *mockTx) CreateOrReplace(doc catalog.Document) error {
	t.staged = append(t.staged, doc)
	return nil
}

func (t *mockTx) Commit(_ context.Context) (string, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	t.store.commitCount++
	if t.store.FailCommitSeq[t.store.commitCount] {
		return "", fmt.Errorf("injected commit failure (commit %d)", t.store.commitCount)
	}

	for _, doc := range t.staged {
		body, err := json.Marshal(doc)
		if err != nil {
			return "", err
		}
		t.store.docs[doc.DocumentID()] = StoredDocument{
			ID:        doc.DocumentID(),
			Kind:      doc.DocumentKind(),
			SourceURL: doc.DocumentSourceURL(),
			Body:      body,
		}
	}
	t.done = true
	return fmt.Sprintf("txn-%d", t.store.commitCount), nil
}

func (t *mockTx) Rollback() error {
	t.staged = nil
	return nil
}
