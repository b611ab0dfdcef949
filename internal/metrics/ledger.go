package metrics

import (
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ledgerOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "operations_total",
		Help:      "Count of ledger operations by outcome.",
	}, []string{"operation", "status"})
	ledgerOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger operations.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5, 30},
	}, []string{"operation", "status"})
	ledgerReplayedShares = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "replayed_shares_total",
		Help:      "Shares restored from storage at startup.",
	})
	ledgerWindowShares = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "window_shares",
		Help:      "Shares in the current window.",
	})
	ledgerWindowDifficulty = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "window_difficulty",
		Help:      "Summed difficulty of the current window.",
	})
	ledgerWindowTarget = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "window_target",
		Help:      "Difficulty the window must reach.",
	})
	ledgerNetworkDifficulty = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "network_difficulty",
		Help:      "Last applied network difficulty.",
	})
	ledgerCarriedSatoshis = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "carried_reward_satoshis",
		Help:      "Reward waiting for a non-empty window.",
	})
)

// Ledger records share ledger metrics.
type Ledger struct{}

// NewLedger creates a Ledger metrics collector.
func NewLedger() *Ledger {
	return &Ledger{}
}

func (m Ledger) observe(operation string, err error, started time.Time) {
	status := statusLabel(err)
	ledgerOperationsTotal.WithLabelValues(operation, status).Inc()
	ledgerOperationDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}

// ObserveAppend records a share append.
func (m Ledger) ObserveAppend(err error, started time.Time) {
	m.observe("append", err, started)
}

// ObservePayout records a block payout.
func (m Ledger) ObservePayout(err error, started time.Time) {
	m.observe("payout", err, started)
}

// ObserveReplay records the startup replay and the shares it restored.
func (m Ledger) ObserveReplay(err error, shares int, started time.Time) {
	m.observe("replay", err, started)
	ledgerReplayedShares.Add(float64(shares))
}

// ObserveDifficulty records a network difficulty refresh.
func (m Ledger) ObserveDifficulty(err error, started time.Time) {
	m.observe("difficulty", err, started)
}

// SetWindow publishes the current window shape.
func (m Ledger) SetWindow(shares int, difficulty, target uint64) {
	ledgerWindowShares.Set(float64(shares))
	ledgerWindowDifficulty.Set(float64(difficulty))
	ledgerWindowTarget.Set(float64(target))
}

// SetNetworkDifficulty publishes the applied network difficulty.
func (m Ledger) SetNetworkDifficulty(difficulty uint64) {
	ledgerNetworkDifficulty.Set(float64(difficulty))
}

// SetCarried publishes the reward carried to the next payout.
func (m Ledger) SetCarried(amount btcutil.Amount) {
	ledgerCarriedSatoshis.Set(float64(amount))
}
