package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_events_handled_total",
			Help: "Total number of events answered, by request type and resolved intent",
		},
		[]string{"request_type", "intent"},
	)

	EventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_events_failed_total",
			Help: "Total number of events whose handler returned an error",
		},
		[]string{"request_type", "intent"},
	)

	IntentFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skill_intent_fallbacks_total",
			Help: "Total number of intents routed to the default handler",
		},
	)

	EventDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "skill_event_duration_seconds",
			Help: "Duration of event handling in seconds",
		},
		[]string{"request_type"},
	)
)
