package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	metricCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trader_market",
		Name:      "price_cycles_total",
		Help:      "Completed price-randomization cycles.",
	})

	metricCycleFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trader_market",
		Name:      "price_cycle_failures_total",
		Help:      "Cycles that failed at the top level.",
	})

	metricOffersUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trader_market",
		Name:      "offers_updated_total",
		Help:      "Trade offers rewritten with a randomized price.",
	})

	metricVendorFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trader_market",
		Name:      "vendor_failures_total",
		Help:      "Vendors whose processing failed inside a cycle.",
	})
)
