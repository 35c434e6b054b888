package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogbox_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	postOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogbox_post_operations_total",
		Help: "Number of post operations grouped by operation and status.",
	}, []string{"operation", "status"})

	uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogbox_uploads_total",
		Help: "Number of media uploads grouped by status.",
	}, []string{"status"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogbox_rate_limit_hits_total",
		Help: "Rate limiter activations grouped by limiter name.",
	}, []string{"limiter"})
)

// IncLogin increments the login counter.
func IncLogin(status string) {
	loginAttempts.WithLabelValues(status).Inc()
}

// IncPostOp increments the post operation counter.
func IncPostOp(operation, status string) {
	postOps.WithLabelValues(operation, status).Inc()
}

// IncUpload increments the upload counter.
func IncUpload(status string) {
	uploads.WithLabelValues(status).Inc()
}

// IncRateLimit increments the rate-limit hit counter.
func IncRateLimit(name string) {
	rateLimitHits.WithLabelValues(name).Inc()
}
