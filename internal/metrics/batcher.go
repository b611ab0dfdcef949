package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	batcherFlushesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "batcher",
		Name:      "flushes_total",
		Help:      "Count of batch flushes.",
	}, []string{"batcher", "status"})
	batcherFlushedItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "batcher",
		Name:      "flushed_items_total",
		Help:      "Items handed to flush callbacks.",
	}, []string{"batcher", "status"})
	batcherFlushDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "batcher",
		Name:      "flush_duration_seconds",
		Help:      "Duration of batch flushes.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"batcher", "status"})
)

// Batcher tracks flushes of a named batcher.
type Batcher struct {
	name string
}

// NewBatcher creates a Batcher metrics collector.
func NewBatcher(name string) *Batcher {
	return &Batcher{name: name}
}

// ObserveFlush records a flush of size items.
func (m Batcher) ObserveFlush(size int, err error, started time.Time) {
	status := statusLabel(err)
	batcherFlushesTotal.WithLabelValues(m.name, status).Inc()
	batcherFlushedItems.WithLabelValues(m.name, status).Add(float64(size))
	batcherFlushDuration.WithLabelValues(m.name, status).Observe(time.Since(started).Seconds())
}
