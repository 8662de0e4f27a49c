package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/api/admin/me":                                "/api/admin/me",
		"/api/admin/users/64f1c2a9e4b0/verify":         "/api/admin/users/{id}/verify",
		"/api/admin/users/bulk-delete":                 "/api/admin/users/bulk-delete",
		"/api/admin/dashboard/application/42?x=1":      "/api/admin/dashboard/application/{id}",
		"/api/admin/admins/0d7e3b9c-8f1a-4e1b/activate": "/api/admin/admins/{id}/activate",
	}
	for in, want := range tests {
		assert.Equal(t, want, RouteLabel(in), in)
	}
}

func TestMetrics_Observe(t *testing.T) {
	m := New()
	m.ObserveAPICall(http.MethodGet, "/api/admin/me", 401, 10*time.Millisecond, nil)
	m.ObserveAPICall(http.MethodGet, "/api/admin/me", 0, time.Millisecond, errors.New("dial"))
	m.ObserveLogin(true)
	m.ObserveLogin(false)
	m.ObserveLogin(false)
	m.IncForcedLogout()
	m.ObserveGuard("allow")
	m.ObserveBootstrap("no_token")
	m.ObserveProfileCache("hit")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `recruit_admin_backend_requests_total{error_class="",method="GET",route="/api/admin/me",status="401"} 1`)
	assert.Contains(t, body, `recruit_admin_backend_requests_total{error_class="errors_errorstring",method="GET",route="/api/admin/me",status="none"} 1`)
	assert.Contains(t, body, `recruit_admin_logins_total{result="error"} 2`)
	assert.Contains(t, body, `recruit_admin_forced_logouts_total 1`)
	assert.Contains(t, body, `recruit_admin_route_guard_decisions_total{outcome="allow"} 1`)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPICall("GET", "/", 200, time.Millisecond, nil)
	m.ObserveLogin(true)
	m.IncForcedLogout()
	m.ObserveGuard("allow")
	m.ObserveBootstrap("stale")
	m.ObserveProfileCache("miss")
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
