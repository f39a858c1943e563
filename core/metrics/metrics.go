package metrics

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cmis_harness"

// Metrics holds the harness collectors on a private registry, so several
// harnesses in one test binary never collide on registration.
type Metrics struct {
	Registry *prometheus.Registry

	Starts            prometheus.Counter
	Stops             prometheus.Counter
	Restarts          *prometheus.CounterVec
	StartFailures     prometheus.Counter
	TypeRegistrations prometheus.Counter
	State             prometheus.Gauge
	Requests          *prometheus.CounterVec
}

// New creates and registers the harness collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Starts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "server_starts_total",
			Help:      "Embedded server starts that reached the running state.",
		}),
		Stops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "server_stops_total",
			Help:      "Embedded server stops.",
		}),
		Restarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "server_restarts_total",
			Help:      "Restarts forced by a suite, by reason.",
		}, []string{"reason"}),
		StartFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "server_start_failures_total",
			Help:      "Starts that failed to bind or become reachable.",
		}),
		TypeRegistrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "type_registrations_total",
			Help:      "Custom types created on the hosted repository.",
		}),
		State: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "server_state",
			Help:      "Current lifecycle state (0 stopped, 1 starting, 2 running, 3 stopping, 4 failed).",
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests served by the embedded server.",
		}, []string{"method", "status"}),
	}

	m.Registry.MustRegister(
		m.Starts, m.Stops, m.Restarts, m.StartFailures, m.TypeRegistrations, m.State, m.Requests,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

// Middleware counts every request by method and response status.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.Requests.WithLabelValues(c.Method(), strconv.Itoa(status)).Inc()
		return err
	}
}
