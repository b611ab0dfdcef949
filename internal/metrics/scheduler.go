package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	schedulerTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "transitions_total",
		Help:      "Count of scheduler state transitions.",
	}, []string{"state"})
	schedulerOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "operations_total",
		Help:      "Count of scheduler operations by outcome.",
	}, []string{"operation", "status"})
	schedulerOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "operation_duration_seconds",
		Help:      "Duration of scheduler operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
	schedulerCycle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "cycle_id",
		Help:      "Identifier of the active allocation cycle.",
	})
	schedulerSlot = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "slot_index",
		Help:      "Index of the slot currently routed.",
	})
)

// Scheduler records allocation scheduler metrics.
type Scheduler struct{}

// NewScheduler creates a Scheduler metrics collector.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// ObserveTransition counts a move into state.
func (m Scheduler) ObserveTransition(state string) {
	schedulerTransitionsTotal.WithLabelValues(state).Inc()
}

// ObservePush records a routing push to the proxy.
func (m Scheduler) ObservePush(err error, started time.Time) {
	m.observe("push", err, started)
}

// ObserveSnapshot records a stake snapshot fetch.
func (m Scheduler) ObserveSnapshot(err error, started time.Time) {
	m.observe("snapshot", err, started)
}

// ObserveHeight records a chain height poll.
func (m Scheduler) ObserveHeight(err error, started time.Time) {
	m.observe("height", err, started)
}

// SetPosition publishes the routed cycle and slot.
func (m Scheduler) SetPosition(cycleID uint64, slot int) {
	schedulerCycle.Set(float64(cycleID))
	schedulerSlot.Set(float64(slot))
}

func (m Scheduler) observe(operation string, err error, started time.Time) {
	status := statusLabel(err)
	schedulerOperationsTotal.WithLabelValues(operation, status).Inc()
	schedulerOperationDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
