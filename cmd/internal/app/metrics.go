package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process registry and the forum's business counters.
// It satisfies web.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	loginSuccess prometheus.Counter
	loginFailure prometheus.Counter
	signups      prometheus.Counter
	clubJoins    prometheus.Counter

	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewMetrics builds a self-contained metrics registry (no global default
// registry, so tests can construct as many as they like).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		loginSuccess: factory.NewCounter(prometheus.CounterOpts{
			Name: "clubhouse_logins_total",
			Help: "Successful logins.",
		}),
		loginFailure: factory.NewCounter(prometheus.CounterOpts{
			Name: "clubhouse_login_failures_total",
			Help: "Rejected credential verifications.",
		}),
		signups: factory.NewCounter(prometheus.CounterOpts{
			Name: "clubhouse_signups_total",
			Help: "Completed registrations.",
		}),
		clubJoins: factory.NewCounter(prometheus.CounterOpts{
			Name: "clubhouse_club_joins_total",
			Help: "Members promoted via the club secret.",
		}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clubhouse_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "clubhouse_http_requests_in_flight",
			Help: "Requests currently being served.",
		}),
	}

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

func (m *Metrics) LoginSucceeded()  { m.loginSuccess.Inc() }
func (m *Metrics) LoginFailed()     { m.loginFailure.Inc() }
func (m *Metrics) SignupCompleted() { m.signups.Inc() }
func (m *Metrics) ClubJoined()      { m.clubJoins.Inc() }

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WithRequestMetrics observes request latency per method and status class.
func WithRequestMetrics(next http.Handler, m *Metrics) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		lrw := &loggingResponseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		next.ServeHTTP(lrw, r)

		m.requestDuration.
			WithLabelValues(r.Method, strconv.Itoa(lrw.status)).
			Observe(time.Since(start).Seconds())
	})
}
