package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecthub_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by statement kind.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "projecthub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// SignupsTotal counts successful account registrations.
	SignupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projecthub_signups_total",
		Help: "Total number of successful user registrations",
	})

	// UploadsTotal counts project uploads by outcome.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecthub_uploads_total",
		Help: "Total number of project upload attempts by outcome",
	}, []string{"outcome"})

	// DownloadsTotal counts served project archive downloads.
	DownloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projecthub_downloads_total",
		Help: "Total number of project archive downloads served",
	})

	// ModerationActionsTotal counts admin moderation actions by action type.
	ModerationActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecthub_moderation_actions_total",
		Help: "Total number of moderation actions by type",
	}, []string{"action"})

	// FollowEventsTotal counts follow and unfollow operations.
	FollowEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecthub_follow_events_total",
		Help: "Total number of follow graph mutations by type",
	}, []string{"event"})
)

// ObserveQuery records the latency of one SQL statement. The operation
// label is the leading keyword of the statement (select, insert, ...), so
// label cardinality stays bounded.
func ObserveQuery(sql string, elapsed time.Duration) {
	op, _, _ := strings.Cut(strings.TrimSpace(strings.ToLower(sql)), " ")
	if op == "" {
		op = "unknown"
	}
	DatabaseQueryLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}
