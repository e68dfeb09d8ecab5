// Package metrics collects run statistics for profiling and indexing and
// exports them in the Prometheus text format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics provides Prometheus metrics for a profiling run. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	filesProfiled   prometheus.Counter
	columnsProfiled *prometheus.CounterVec
	columnsMapped   prometheus.Counter

	ontologies     *prometheus.CounterVec
	pointsUpserted prometheus.Counter

	embeddingRequests *prometheus.CounterVec
	embeddingTexts    prometheus.Counter
	embeddingLatency  prometheus.Histogram
	embeddingCache    *prometheus.CounterVec
}

// New creates the collectors on a private registry.
func New(component string) *Metrics {
	labels := prometheus.Labels{"component": component}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		filesProfiled: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "csvw_ontomap_files_profiled_total",
			Help:        "Total number of tabular files profiled",
			ConstLabels: labels,
		}),
		columnsProfiled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "csvw_ontomap_columns_profiled_total",
			Help:        "Total number of columns profiled by detected type",
			ConstLabels: labels,
		}, []string{"type"}),
		columnsMapped: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "csvw_ontomap_columns_mapped_total",
			Help:        "Total number of columns given a propertyUrl",
			ConstLabels: labels,
		}),
		ontologies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "csvw_ontomap_ontologies_total",
			Help:        "Ontologies processed by the indexer by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		pointsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "csvw_ontomap_points_upserted_total",
			Help:        "Total number of vectors written to the index",
			ConstLabels: labels,
		}),
		embeddingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "csvw_ontomap_embedding_requests_total",
			Help:        "Embedding requests by status",
			ConstLabels: labels,
		}, []string{"status"}),
		embeddingTexts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "csvw_ontomap_embedding_texts_total",
			Help:        "Total number of texts sent for embedding",
			ConstLabels: labels,
		}),
		embeddingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "csvw_ontomap_embedding_duration_seconds",
			Help:        "Latency of embedding requests",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		embeddingCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "csvw_ontomap_embedding_cache_total",
			Help:        "Embedding cache lookups by result",
			ConstLabels: labels,
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.filesProfiled,
		m.columnsProfiled,
		m.columnsMapped,
		m.ontologies,
		m.pointsUpserted,
		m.embeddingRequests,
		m.embeddingTexts,
		m.embeddingLatency,
		m.embeddingCache,
	)

	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// FileProfiled records one profiled file.
func (m *Metrics) FileProfiled() {
	if m == nil {
		return
	}
	m.filesProfiled.Inc()
}

// ColumnProfiled records a column of the given detected type.
func (m *Metrics) ColumnProfiled(kind string, mapped bool) {
	if m == nil {
		return
	}
	m.columnsProfiled.WithLabelValues(kind).Inc()
	if mapped {
		m.columnsMapped.Inc()
	}
}

// Ontology outcomes.
const (
	OutcomeIndexed = "indexed"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// OntologyProcessed records an indexer outcome and the points it wrote.
func (m *Metrics) OntologyProcessed(outcome string, points int) {
	if m == nil {
		return
	}
	m.ontologies.WithLabelValues(outcome).Inc()
	m.pointsUpserted.Add(float64(points))
}

// EmbeddingRequest records one embedding call of n texts.
func (m *Metrics) EmbeddingRequest(n int, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.embeddingRequests.WithLabelValues(status).Inc()
	m.embeddingTexts.Add(float64(n))
	m.embeddingLatency.Observe(d.Seconds())
}

// EmbeddingCache records cache hits and misses.
func (m *Metrics) EmbeddingCache(hits, misses int) {
	if m == nil {
		return
	}
	m.embeddingCache.WithLabelValues("hit").Add(float64(hits))
	m.embeddingCache.WithLabelValues("miss").Add(float64(misses))
}

// WriteFile writes all metrics to path in the Prometheus text format.
func (m *Metrics) WriteFile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
