package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_turns_total",
			Help: "Conversation turns by terminal state.",
		},
		[]string{"state"},
	)

	LeadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_leads_total",
			Help: "Persisted turns by lead category at the end of the turn.",
		},
		[]string{"category"},
	)

	GenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "intake_generation_duration_seconds",
			Help:    "Reply generation latency in seconds, failures included.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15},
		},
	)

	DeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_deliveries_total",
			Help: "Outbound WhatsApp deliveries by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		TurnsTotal,
		LeadsTotal,
		GenerationDuration,
		DeliveriesTotal,
	)
}
