package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ecodeli"

// UnmatchedRoute is the path label of requests no endpoint handled.
const UnmatchedRoute = "unmatched"

// fiber registers Use and Group middleware under this pseudo method.
const middlewareMethod = "USE"

// Metrics owns the service's Prometheus collectors.
type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	errors       *prometheus.CounterVec
	authOutcomes *prometheus.CounterVec
	tokensIssued *prometheus.CounterVec
}

// NewMetrics registers collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "path"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Total number of error responses by error code.",
		}, []string{"method", "path", "code"}),
		authOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "outcomes_total",
			Help:      "Request authentication outcomes.",
		}, []string{"outcome"}),
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "tokens_issued_total",
			Help:      "Credentials issued by user type.",
		}, []string{"user_type"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.errors,
		m.authOutcomes,
		m.tokensIssued,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// RecordRequest observes a completed request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError counts an error response.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, path, code).Inc()
}

// RecordAuthOutcome counts one authenticator decision.
func (m *Metrics) RecordAuthOutcome(outcome string) {
	if m == nil {
		return
	}
	m.authOutcomes.WithLabelValues(outcome).Inc()
}

// RecordTokenIssued counts a credential handed out at login or registration.
func (m *Metrics) RecordTokenIssued(userType string) {
	if m == nil {
		return
	}
	m.tokensIssued.WithLabelValues(userType).Inc()
}

// RouteLabels returns the method and route template labels for c. The
// values never alias fasthttp buffers, so they outlive the request.
// Requests that ended in a middleware with a 404 are folded into
// UnmatchedRoute to keep label cardinality bounded.
func RouteLabels(c *fiber.Ctx, status int) (method, path string) {
	route := c.Route()
	if len(route.Handlers) == 0 {
		return utils.CopyString(c.Method()), UnmatchedRoute
	}
	if route.Method == middlewareMethod {
		method = utils.CopyString(c.Method())
		if status == fiber.StatusNotFound {
			return method, UnmatchedRoute
		}
		return method, utils.CopyString(route.Path)
	}
	return utils.CopyString(route.Method), utils.CopyString(route.Path)
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
