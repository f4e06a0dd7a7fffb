// Package metrics defines the Prometheus collectors for the loyalty core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector bundles the checkout and ledger instrumentation. One instance
// is created at startup and passed to the services that record into it.
type Collector struct {
	CheckoutsTotal     *prometheus.CounterVec
	CheckoutDuration   prometheus.Histogram
	LedgerEntriesTotal *prometheus.CounterVec
}

// New registers the collectors on reg and returns them.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)

	return &Collector{
		CheckoutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "niteos",
			Subsystem: "pos",
			Name:      "checkouts_total",
			Help:      "Checkout attempts by result.",
		}, []string{"result"}),

		CheckoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "niteos",
			Subsystem: "pos",
			Name:      "checkout_duration_seconds",
			Help:      "End-to-end checkout duration including lock wait.",
			Buckets:   prometheus.DefBuckets,
		}),

		LedgerEntriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "niteos",
			Subsystem: "nitecoin",
			Name:      "ledger_entries_total",
			Help:      "Ledger entries written by kind.",
		}, []string{"kind"}),
	}
}
