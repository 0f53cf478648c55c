package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GuardDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "solargrid", Name: "guard_decisions_total", Help: "Route guard evaluations by gate and decision."},
		[]string{"gate", "decision"},
	)
	BackendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "solargrid", Name: "backend_requests_total", Help: "Backend API calls by method and normalized outcome."},
		[]string{"method", "outcome"},
	)
	SessionStoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "solargrid", Name: "session_store_errors_total", Help: "Session reads that failed and were reported as absent."},
		[]string{"store"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "solargrid", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "solargrid", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(GuardDecisions)
	reg.MustRegister(BackendRequests)
	reg.MustRegister(SessionStoreErrors)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
