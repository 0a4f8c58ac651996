package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atm_bot_updates_handled_total",
			Help: "Total number of messages routed to a handler",
		},
		[]string{"route"},
	)

	InvalidInput = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atm_bot_invalid_input_total",
			Help: "Total number of requests answered with the invalid data reply",
		},
		[]string{"reason"},
	)

	HandlerPanics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "atm_bot_handler_panics_total",
			Help: "Total number of recovered handler panics",
		},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atm_bot_upstream_requests_total",
			Help: "Total number of requests to the prediction service",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "atm_bot_upstream_request_duration_seconds",
			Help: "Duration of prediction service requests in seconds",
		},
		[]string{"endpoint"},
	)
)
