// Package telemetry exports Prometheus metrics for the ingestion pipeline
// and serves the optional /metrics listener used during long runs.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heytulsiprasad/clawdex/internal/logger"
)

const readHeaderTimeout = 5 * time.Second

// Routing outcome labels.
const (
	OutcomePublished = "published"
	OutcomeQueued    = "queued"
	OutcomeSkipped   = "skipped"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// Metrics holds all pipeline Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	ItemsRouted        *prometheus.CounterVec
	DocumentsCommitted prometheus.Counter
	CommitFailures     prometheus.Counter
	CommitDuration     prometheus.Histogram
	BatchSize          prometheus.Histogram
	MediaUploaded      prometheus.Counter
}

// NewMetrics creates the pipeline metric set on its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		ItemsRouted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clawdex_items_routed_total",
			Help: "Total candidates routed, by terminal outcome",
		}, []string{"outcome", "platform"}),
		DocumentsCommitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "clawdex_documents_committed_total",
			Help: "Total documents committed to the catalog store",
		}),
		CommitFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "clawdex_commit_failures_total",
			Help: "Total chunk transactions that failed to commit",
		}),
		CommitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "clawdex_commit_duration_seconds",
			Help:    "Time to commit one document chunk",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "clawdex_batch_size",
			Help:    "Number of candidates per discovery batch",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 200, 500},
		}),
		MediaUploaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "clawdex_media_assets_uploaded_total",
			Help: "Total media assets uploaded to the catalog store",
		}),
	}
}

// RecordOutcome increments the routed-items counter. Nil-safe so components
// can run without metrics wired.
func (m *Metrics) RecordOutcome(outcome, platform string) {
	if m == nil {
		return
	}
	m.ItemsRouted.WithLabelValues(outcome, platform).Inc()
}

// RecordCommit records one chunk commit attempt.
func (m *Metrics) RecordCommit(docs int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.CommitDuration.Observe(duration.Seconds())
	if err != nil {
		m.CommitFailures.Inc()
		return
	}
	m.DocumentsCommitted.Add(float64(docs))
}

// RecordBatchSize records the size of one discovery batch.
func (m *Metrics) RecordBatchSize(size int) {
	if m == nil {
		return
	}
	m.BatchSize.Observe(float64(size))
}

// RecordMediaUpload counts one uploaded media asset.
func (m *Metrics) RecordMediaUpload() {
	if m == nil {
		return
	}
	m.MediaUploaded.Inc()
}

// Serve exposes /metrics on addr until the context is cancelled.
// Returns immediately; intended for long ingestion runs watched by scrapers.
func (m *Metrics) Serve(ctx context.Context, addr string, log logger.Logger) {
	if m == nil || addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), readHeaderTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		log.Info("metrics listener started", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics listener stopped", logger.Error(err))
		}
	}()
}
