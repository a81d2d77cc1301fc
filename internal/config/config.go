package config

import (
	"time"

	"github.com/heytulsiprasad/clawdex/internal/logger"
)

// Default configuration values.
const (
	defaultDBHost         = "localhost"
	defaultDBPort         = 5432
	defaultDBUser         = "postgres"
	defaultDBName         = "clawdex"
	defaultDBSSLMode      = "disable"
	defaultDBMaxConns     = 25
	defaultDBMaxIdleConns = 5
	defaultDBTimeoutSec   = 10
	defaultFetchTimeout   = 30 * time.Second
	defaultFetchRPS       = 4
	defaultMaxImages      = 4
	defaultMaxVideos      = 2
	defaultChunkSize      = 10
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
)

// Config holds all configuration for the ingestion pipeline.
// It is built once in main and injected into every component; nothing reads
// the environment after load time.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Media   MediaConfig   `yaml:"media"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Logging logger.Config `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// CatalogConfig holds catalog store (PostgreSQL) configuration.
type CatalogConfig struct {
	Host            string        `env:"CLAWDEX_DB_HOST"     yaml:"host"`
	Port            int           `env:"CLAWDEX_DB_PORT"     yaml:"port"`
	User            string        `env:"CLAWDEX_DB_USER"     yaml:"user"`
	Password        string        `env:"CLAWDEX_DB_PASSWORD" yaml:"password"`
	Database        string        `env:"CLAWDEX_DB_NAME"     yaml:"database"`
	SSLMode         string        `env:"CLAWDEX_DB_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
}

// MediaConfig holds remote media fetching configuration.
type MediaConfig struct {
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// FetchRPS bounds outbound media fetches per second.
	FetchRPS  int `env:"CLAWDEX_MEDIA_RPS" yaml:"fetch_rps"`
	MaxImages int `yaml:"max_images"`
	MaxVideos int `yaml:"max_videos"`
}

// IngestConfig holds routing and commit tuning.
type IngestConfig struct {
	// ChunkSize is the number of documents committed per transaction.
	ChunkSize int `yaml:"chunk_size"`
}

// MetricsConfig holds the optional Prometheus listener configuration.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables the listener.
	Addr string `env:"CLAWDEX_METRICS_ADDR" yaml:"addr"`
}

// Load loads configuration from the specified path. An empty path falls back
// to ./config.yml; a missing file is fine, the environment alone suffices.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.yml"
	}
	return loadWithDefaults[Config](path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setCatalogDefaults(&cfg.Catalog)
	setMediaDefaults(&cfg.Media)
	if cfg.Ingest.ChunkSize == 0 {
		cfg.Ingest.ChunkSize = defaultChunkSize
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLogFormat
	}
}

func setCatalogDefaults(c *CatalogConfig) {
	if c.Host == "" {
		c.Host = defaultDBHost
	}
	if c.Port == 0 {
		c.Port = defaultDBPort
	}
	if c.User == "" {
		c.User = defaultDBUser
	}
	if c.Database == "" {
		c.Database = defaultDBName
	}
	if c.SSLMode == "" {
		c.SSLMode = defaultDBSSLMode
	}
	if c.MaxConnections == 0 {
		c.MaxConnections = defaultDBMaxConns
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = defaultDBMaxIdleConns
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = time.Hour
	}
	if c.QueryTimeout == 0 {
		c.QueryTimeout = defaultDBTimeoutSec * time.Second
	}
}

func setMediaDefaults(m *MediaConfig) {
	if m.FetchTimeout == 0 {
		m.FetchTimeout = defaultFetchTimeout
	}
	if m.FetchRPS == 0 {
		m.FetchRPS = defaultFetchRPS
	}
	if m.MaxImages == 0 {
		m.MaxImages = defaultMaxImages
	}
	if m.MaxVideos == 0 {
		m.MaxVideos = defaultMaxVideos
	}
}
