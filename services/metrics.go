package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	progressUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okrdeck_progress_updates_total",
		Help: "Progress updates applied, by source.",
	}, []string{"source"})

	alertsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okrdeck_alerts_emitted_total",
		Help: "Alerts emitted, by type.",
	}, []string{"type"})

	webhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okrdeck_webhook_events_total",
		Help: "Webhook events received, by kind and outcome.",
	}, []string{"kind", "outcome"})
)

func recordProgressUpdate(source string) {
	progressUpdatesTotal.WithLabelValues(source).Inc()
}

func recordAlert(alertType string) {
	alertsEmittedTotal.WithLabelValues(alertType).Inc()
}

func recordWebhookEvent(kind, outcome string) {
	webhookEventsTotal.WithLabelValues(kind, outcome).Inc()
}
