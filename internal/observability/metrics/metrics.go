// Package metrics holds the Prometheus instruments for the admin console.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	obserrors "github.com/target/recruit-admin/internal/observability/errors"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

const namespace = "recruit_admin"

// Metrics provides observability for the session model and backend calls.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	APIRequests      *prometheus.CounterVec
	APIDuration      *prometheus.HistogramVec
	Logins           *prometheus.CounterVec
	Bootstraps       *prometheus.CounterVec
	ForcedLogouts    prometheus.Counter
	GuardDecisions   *prometheus.CounterVec
	ProfileCacheHits *prometheus.CounterVec
}

// New creates a Metrics instance registered on its own registry, so tests can build many.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		APIRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Backend API calls by method, route, status and error class",
		}, []string{"method", "route", "status", "error_class"}),
		APIDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Backend API call latency",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result",
		}, []string{"result"}),
		Bootstraps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_bootstraps_total",
			Help:      "Session bootstraps by outcome",
		}, []string{"result"}),
		ForcedLogouts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forced_logouts_total",
			Help:      "Sessions ended because the backend rejected the credential",
		}),
		GuardDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_guard_decisions_total",
			Help:      "Route guard outcomes",
		}, []string{"outcome"}),
		ProfileCacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_cache_lookups_total",
			Help:      "Profile cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
	}
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveAPICall records one backend call. status is 0 when no response arrived.
func (m *Metrics) ObserveAPICall(method, route string, status int, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.APIRequests.WithLabelValues(method, route, statusLabel(status), obserrors.Classify(err)).Inc()
	m.APIDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveLogin records a login attempt.
func (m *Metrics) ObserveLogin(success bool) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(resultLabel(success)).Inc()
}

// ObserveBootstrap records how a bootstrap settled: authenticated, unauthenticated, no_token or stale.
func (m *Metrics) ObserveBootstrap(result string) {
	if m == nil {
		return
	}
	m.Bootstraps.WithLabelValues(result).Inc()
}

// IncForcedLogout records a forced logout.
func (m *Metrics) IncForcedLogout() {
	if m == nil {
		return
	}
	m.ForcedLogouts.Inc()
}

// ObserveGuard records a route guard outcome.
func (m *Metrics) ObserveGuard(outcome string) {
	if m == nil {
		return
	}
	m.GuardDecisions.WithLabelValues(outcome).Inc()
}

// ObserveProfileCache records a profile cache lookup result.
func (m *Metrics) ObserveProfileCache(result string) {
	if m == nil {
		return
	}
	m.ProfileCacheHits.WithLabelValues(result).Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultError
}

func statusLabel(status int) string {
	if status <= 0 {
		return "none"
	}
	return strconv.Itoa(status)
}

// RouteLabel collapses identifier segments so label cardinality stays bounded.
// "/api/admin/users/64f1c/verify" becomes "/api/admin/users/{id}/verify".
func RouteLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if looksLikeID(s) {
			segs[i] = "{id}"
		}
	}
	return strings.Join(segs, "/")
}

func looksLikeID(s string) bool {
	if s == "" || s == "bulk-delete" {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	// Hex object IDs, UUIDs and numeric IDs all carry digits; route words do not.
	return digits > 0
}
