package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionOperations counts session store operations by type and outcome.
	SessionOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_session_operations_total",
		Help: "Total number of session store operations by type and outcome",
	}, []string{"operation", "outcome"})

	// FollowTransitions counts follow state machine transitions.
	FollowTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_follow_transitions_total",
		Help: "Total number of follow edge transitions by kind",
	}, []string{"transition"})

	// AuthAttempts counts authentication attempts by method and outcome.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_auth_attempts_total",
		Help: "Total number of authentication attempts by method and outcome",
	}, []string{"method", "outcome"})

	// DatabaseQueryLatency records database query latency by statement verb.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ripple_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

// ObserveQuery records the latency of a database query, labelled by the
// leading SQL verb.
func ObserveQuery(sql string, elapsed time.Duration) {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return
	}
	DatabaseQueryLatency.WithLabelValues(strings.ToUpper(fields[0])).Observe(elapsed.Seconds())
}
