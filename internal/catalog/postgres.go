package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections.
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections.
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum connection lifetime.
	DefaultConnMaxLifetime = 5 * time.Minute
	// DefaultQueryTimeout bounds individual store operations.
	DefaultQueryTimeout = 10 * time.Second
	// defaultPingTimeout bounds the connection check on startup.
	defaultPingTimeout = 5 * time.Second
)

// ErrDuplicateID is returned by Create when a document id already exists.
var ErrDuplicateID = errors.New("document id already exists")

// Config holds PostgreSQL connection configuration.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

// PostgresStore implements Store over a PostgreSQL documents table. Document
// bodies are stored as JSONB; id and source URL are lifted into columns for
// the dedup and counting queries.
type PostgresStore struct {
	db           *sqlx.DB
	queryTimeout time.Duration
}

// NewPostgresStore connects to PostgreSQL and verifies the connection.
func NewPostgresStore(cfg Config) (*PostgresStore, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to catalog database: %w", err)
	}

	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = DefaultMaxOpenConns
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	if cfg.QueryTimeout == 0 {
		cfg.QueryTimeout = DefaultQueryTimeout
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()
	if pingErr := db.PingContext(ctx); pingErr != nil {
		return nil, fmt.Errorf("ping catalog database: %w", pingErr)
	}

	return &PostgresStore{db: db, queryTimeout: cfg.QueryTimeout}, nil
}

// NewPostgresStoreFromDB wraps an existing connection. Used by tests.
func NewPostgresStoreFromDB(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db, queryTimeout: DefaultQueryTimeout}
}

// Migrate creates the documents and assets tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id         TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			source_url TEXT NOT NULL,
			body       JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_source_url ON documents (source_url)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents (kind)`,
		`CREATE TABLE IF NOT EXISTS assets (
			id           TEXT PRIMARY KEY,
			filename     TEXT NOT NULL,
			content_type TEXT NOT NULL,
			data         BYTEA NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply catalog schema: %w", err)
		}
	}
	return nil
}

// CountBySourceURL returns how many documents reference the given source URL.
func (s *PostgresStore) CountBySourceURL(ctx context.Context, sourceURL string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM documents WHERE source_url = $1`, sourceURL)
	if err != nil {
		return 0, fmt.Errorf("count documents by source url: %w", err)
	}
	return count, nil
}

// CreateAsset stores binary media and returns its generated id.
func (s *PostgresStore) CreateAsset(ctx context.Context, data []byte, opts AssetOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	id := "asset-" + uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (id, filename, content_type, data) VALUES ($1, $2, $3, $4)`,
		id, opts.Filename, contentType, data)
	if err != nil {
		return "", fmt.Errorf("create asset: %w", err)
	}
	return id, nil
}

// Create inserts a single document, failing on an existing id.
func (s *PostgresStore) Create(ctx context.Context, doc Document) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document %s: %w", doc.DocumentID(), err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, kind, source_url, body)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		doc.DocumentID(), doc.DocumentKind(), doc.DocumentSourceURL(), body)
	if err != nil {
		return "", fmt.Errorf("create document %s: %w", doc.DocumentID(), err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("create document %s: %w", doc.DocumentID(), err)
	}
	if rows == 0 {
		return "", fmt.Errorf("create document %s: %w", doc.DocumentID(), ErrDuplicateID)
	}
	return doc.DocumentID(), nil
}

// Begin opens a transaction for an atomic multi-document commit.
func (s *PostgresStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin catalog transaction: %w", err)
	}
	return &postgresTx{tx: tx, queryTimeout: s.queryTimeout}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// postgresTx applies create-or-replace mutations inside one sql.Tx. The
// upserts execute eagerly but only become visible at Commit.
type postgresTx struct {
	tx           *sqlx.Tx
	queryTimeout time.Duration
	done         bool
}

func (t *postgresTx) CreateOrReplace(doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", doc.DocumentID(), err)
	}

	_, err = t.tx.Exec(
		`INSERT INTO documents (id, kind, source_url, body)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
			kind       = EXCLUDED.kind,
			source_url = EXCLUDED.source_url,
			body       = EXCLUDED.body,
			updated_at = now()`,
		doc.DocumentID(), doc.DocumentKind(), doc.DocumentSourceURL(), body)
	if err != nil {
		return fmt.Errorf("stage document %s: %w", doc.DocumentID(), err)
	}
	return nil
}

func (t *postgresTx) Commit(_ context.Context) (string, error) {
	if err := t.tx.Commit(); err != nil {
		return "", fmt.Errorf("commit catalog transaction: %w", err)
	}
	t.done = true
	return "txn-" + uuid.NewString(), nil
}

func (t *postgresTx) Rollback() error {
	if t.done {
		return nil
	}
	return t.tx.Rollback()
}
