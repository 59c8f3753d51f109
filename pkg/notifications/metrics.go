package notifications

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshmon_notifications_total",
			Help: "Notification attempts by channel and result",
		},
		[]string{"channel", "result"}, // sent, failed, rate_limited
	)

	notificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meshmon_notification_duration_seconds",
			Help:    "Time taken to deliver one notification",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"channel"},
	)
)
