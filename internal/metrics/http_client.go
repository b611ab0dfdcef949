package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpClientRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http_client",
		Name:      "requests_total",
		Help:      "Count of outbound HTTP requests.",
	}, []string{"client", "operation", "status"})
	httpClientRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http_client",
		Name:      "request_duration_seconds",
		Help:      "Duration of outbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"client", "operation", "status"})
)

// HTTPClient tracks outbound calls of one client, such as the stake feed
// or the mining proxy.
type HTTPClient struct {
	client string
}

// NewStakeFeed tracks calls to the stake feed.
func NewStakeFeed() *HTTPClient {
	return &HTTPClient{client: "stake_feed"}
}

// NewProxyClient tracks calls to a mining proxy. Fanned-out proxies share
// the collector.
func NewProxyClient() *HTTPClient {
	return &HTTPClient{client: "proxy"}
}

// Observe records a single request.
func (m HTTPClient) Observe(operation string, err error, started time.Time) {
	status := statusLabel(err)
	httpClientRequestsTotal.WithLabelValues(m.client, operation, status).Inc()
	httpClientRequestDuration.WithLabelValues(m.client, operation, status).Observe(time.Since(started).Seconds())
}
