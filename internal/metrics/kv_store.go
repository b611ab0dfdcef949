package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	kvStoreOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "kv_store",
		Name:      "operations_total",
		Help:      "Count of local state store operations.",
	}, []string{"operation", "status"})
	kvStoreOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "kv_store",
		Name:      "operation_duration_seconds",
		Help:      "Duration of local state store operations.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
	}, []string{"operation", "status"})
)

// KVStore tracks metrics for the local state store.
type KVStore struct{}

// NewKVStore creates a KVStore metrics collector.
func NewKVStore() *KVStore {
	return &KVStore{}
}

// Observe records a store operation.
func (m KVStore) Observe(operation string, err error, started time.Time) {
	status := statusLabel(err)
	kvStoreOperationsTotal.WithLabelValues(operation, status).Inc()
	kvStoreOperationDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
