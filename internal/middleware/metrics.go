package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

// PrometheusMetrics wraps the fiberprometheus middleware so the server can
// register both the collector and the /metrics endpoint.
type PrometheusMetrics struct {
	prometheus *fiberprometheus.FiberPrometheus
}

// InitMetrics creates the HTTP metrics collector for the given service name.
func InitMetrics(serviceName string) *PrometheusMetrics {
	return &PrometheusMetrics{
		prometheus: fiberprometheus.New(serviceName),
	}
}

// RegisterAt exposes the metrics endpoint on the given app.
func (p *PrometheusMetrics) RegisterAt(app *fiber.App, path string) {
	p.prometheus.RegisterAt(app, path)
}

// Middleware returns the Fiber handler recording per-request metrics.
func (p *PrometheusMetrics) Middleware(c *fiber.Ctx) error {
	return p.prometheus.Middleware(c)
}
