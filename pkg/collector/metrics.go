package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	probeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meshmon_probe_duration_seconds",
			Help:    "Time taken by individual remote probes",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"probe"},
	)

	probeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshmon_probe_failures_total",
			Help: "Remote probes whose result was dropped from the snapshot",
		},
		[]string{"probe"},
	)

	reachabilityTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshmon_reachability_checks_total",
			Help: "Reachability checks by outcome",
		},
		[]string{"status"}, // online or unreachable
	)
)
