package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Card generation metrics
	CardsGenerated     prometheus.Counter
	BatchesTotal       *prometheus.CounterVec
	ChunksPersisted    prometheus.Counter
	ChunkRetries       prometheus.Counter
	GenerationDuration prometheus.Histogram
	ChunkInsertLatency prometheus.Histogram

	// Export metrics
	ExportsTotal *prometheus.CounterVec

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		CardsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cards_generated_total",
			Help:      "Total number of benefit cards generated",
		}),
		BatchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batches_total",
			Help:      "Total number of generation batches by terminal status",
		}, []string{"status"}),
		ChunksPersisted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chunks_persisted_total",
			Help:      "Total number of card chunks written to the store",
		}),
		ChunkRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chunk_retries_total",
			Help:      "Total number of chunk inserts retried after a uniqueness violation",
		}),
		GenerationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "generation_duration_seconds",
			Help:      "Wall time of a full batch generation run",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		ChunkInsertLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chunk_insert_duration_seconds",
			Help:      "Duration of a single chunk bulk insert",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		ExportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "exports_total",
			Help:      "Total number of CSV exports by outcome",
		}, []string{"status"}),
		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
	}
}

// NewNopMetrics returns unregistered collectors, for tests.
func NewNopMetrics() *Metrics {
	return &Metrics{
		CardsGenerated: prometheus.NewCounter(prometheus.CounterOpts{Name: "nop_cards_generated_total"}),
		BatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nop_batches_total",
		}, []string{"status"}),
		ChunksPersisted: prometheus.NewCounter(prometheus.CounterOpts{Name: "nop_chunks_persisted_total"}),
		ChunkRetries:    prometheus.NewCounter(prometheus.CounterOpts{Name: "nop_chunk_retries_total"}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "nop_generation_duration_seconds",
		}),
		ChunkInsertLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "nop_chunk_insert_duration_seconds",
		}),
		ExportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nop_exports_total",
		}, []string{"status"}),
		DatabaseOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nop_database_operations_total",
		}, []string{"operation", "status"}),
		DatabaseLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "nop_database_operation_duration_seconds",
		}, []string{"operation"}),
	}
}
