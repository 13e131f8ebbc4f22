package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the storefront collectors. A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	cartMutations   *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	commerceLatency *prometheus.HistogramVec
}

// New registers the storefront collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "cart_mutations_total",
		Help:      "Cart store mutations by operation.",
	}, []string{"op"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "cart_persist_failures_total",
		Help:      "Cart snapshots that could not be written or read.",
	}, []string{"op"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Name:      "commerce_request_duration_seconds",
		Help:      "Latency of headless-commerce API calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op", "status"})
	reg.MustRegister(mutations, failures, latency)
	return &Metrics{
		cartMutations:   mutations,
		persistFailures: failures,
		commerceLatency: latency,
	}
}

func (m *Metrics) IncCartMutation(op string) {
	if m == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func (m *Metrics) IncPersistFailure(op string) {
	if m == nil {
		return
	}
	m.persistFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveCommerce records one upstream call; status 0 means transport failure.
func (m *Metrics) ObserveCommerce(op string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.commerceLatency.WithLabelValues(normalizeLabel(op), strconv.Itoa(status)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}
