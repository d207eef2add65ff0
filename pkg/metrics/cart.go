package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart store activity.
type CartMetrics struct {
	mutations       *prometheus.CounterVec
	checkouts       *prometheus.CounterVec
	storageFailures *prometheus.CounterVec
	storageLatency  *prometheus.HistogramVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_checkouts_total",
		Help: "Checkout attempts by outcome (link, empty, failed).",
	}, []string{"outcome"})
	storageFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_storage_failures_total",
		Help: "Failed cart storage reads and writes.",
	}, []string{"op"})
	storageLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_storage_duration_seconds",
		Help:    "Duration of cart storage reads and writes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	reg.MustRegister(mutations, checkouts, storageFailures, storageLatency)
	return &CartMetrics{
		mutations:       mutations,
		checkouts:       checkouts,
		storageFailures: storageFailures,
		storageLatency:  storageLatency,
	}
}

// IncMutation counts a cart mutation (add, remove, update, clear).
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncCheckout counts a checkout attempt.
func (c *CartMetrics) IncCheckout(outcome string) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncStorageFailure counts a failed storage load or save.
func (c *CartMetrics) IncStorageFailure(op string) {
	if c == nil || c.storageFailures == nil {
		return
	}
	c.storageFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveStorage records the duration of a storage load or save.
func (c *CartMetrics) ObserveStorage(op string, duration time.Duration) {
	if c == nil || c.storageLatency == nil {
		return
	}
	c.storageLatency.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
