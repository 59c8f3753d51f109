package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshmon_cycles_total",
			Help: "Collection cycles by result",
		},
		[]string{"result"}, // ok or failed
	)

	cycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meshmon_cycle_duration_seconds",
			Help:    "Wall-clock time of one collection cycle",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	nodesGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "meshmon_nodes",
			Help: "Nodes seen in the last cycle by status",
		},
		[]string{"status"},
	)

	alertsOpened = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meshmon_alerts_opened_total",
			Help: "Alert rows created",
		},
	)

	alertsNotified = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meshmon_alerts_notified_total",
			Help: "Alerts delivered through at least one channel",
		},
	)
)
