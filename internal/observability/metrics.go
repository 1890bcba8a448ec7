package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SignUpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_sign_ups_total",
			Help: "Total number of sign-up attempts.",
		},
		[]string{"result"},
	)

	SignInsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_sign_ins_total",
			Help: "Total number of sign-in attempts.",
		},
		[]string{"result"},
	)

	OneTimeTokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_one_time_tokens_issued_total",
			Help: "Total number of verification and password reset tokens issued.",
		},
		[]string{"purpose"},
	)
)

// MustRegister registers all service metrics with the default registry.
func MustRegister() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		SignUpsTotal,
		SignInsTotal,
		OneTimeTokensIssuedTotal,
	)
}
