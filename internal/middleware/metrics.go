package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindathreads_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// ModerationChecks counts moderation verdicts by entity kind and result.
	ModerationChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindathreads_moderation_checks_total",
		Help: "Total number of moderation checks by entity kind and result",
	}, []string{"kind", "result"})

	// AutoReplies counts auto-reply attempts by outcome.
	AutoReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindathreads_auto_replies_total",
		Help: "Total number of auto-reply attempts by outcome",
	}, []string{"outcome"})
)

// InitMetrics sets up the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler that records HTTP metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
