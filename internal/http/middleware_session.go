package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/target/recruit-admin/internal/adapters/cookiestore"
	"github.com/target/recruit-admin/internal/apiclient"
	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/observability/metrics"
	"github.com/target/recruit-admin/internal/ports"
	"github.com/target/recruit-admin/internal/service"
)

var errSessionUnavailable = errors.New("admin session not initialized")

// SessionFactoryOptions configures how each request's admin session is assembled.
type SessionFactoryOptions struct {
	// Client is the shared backend client; each request derives a token-bound copy.
	Client     *apiclient.Client
	Cookies    cookiestore.Options
	Profiles   ports.ProfileCache
	ProfileTTL time.Duration
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	LoginPath  string
}

// SessionFactory rebuilds the admin session from the admin_token cookie on every request.
// Concurrent bootstraps for the same credential share one /api/admin/me call.
type SessionFactory struct {
	opts   SessionFactoryOptions
	flight singleflight.Group
}

// NewSessionFactory constructs a SessionFactory.
func NewSessionFactory(opts SessionFactoryOptions) *SessionFactory {
	return &SessionFactory{opts: opts}
}

// RequestSession is the admin session for one request together with its token-bound backend.
type RequestSession struct {
	Manager *service.SessionManager
	Backend ports.Backend
	nav     *webNavigator
}

// Snapshot returns the current session view.
func (s *RequestSession) Snapshot() domainauth.Snapshot { return s.Manager.Snapshot() }

// PendingNavigation reports a hard navigation requested by a forced logout during this request.
func (s *RequestSession) PendingNavigation() (string, bool) {
	if s == nil || s.nav == nil {
		return "", false
	}
	return s.nav.Pending()
}

// Open binds a new session to w and r. The session starts bootstrapping; call Bootstrap to settle it.
func (f *SessionFactory) Open(w http.ResponseWriter, r *http.Request) *RequestSession {
	store := cookiestore.New(w, r, f.opts.Cookies)
	backend := apiclient.NewBackend(f.opts.Client.WithTokens(store))
	nav := &webNavigator{}
	mgr := service.NewSessionManager(service.SessionManagerOptions{
		Tokens:       store,
		API:          backend,
		Navigator:    nav,
		Profiles:     f.opts.Profiles,
		ProfileTTL:   f.opts.ProfileTTL,
		Flight:       &f.flight,
		FetchTimeout: f.opts.Client.Timeout(),
		Logger:       f.opts.Logger,
		Metrics:      f.opts.Metrics,
		LoginPath:    f.opts.LoginPath,
	})
	return &RequestSession{Manager: mgr, Backend: backend, nav: nav}
}

// Sessions returns a middleware that bootstraps the admin session before the handler runs.
func Sessions(f *SessionFactory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rs := f.Open(w, r)
			defer rs.Manager.Close()
			rs.Manager.Bootstrap(r.Context())
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), rs)))
		})
	}
}

// webNavigator records the target of a hard navigation so the handler can answer with a redirect.
type webNavigator struct {
	mu     sync.Mutex
	target string
}

// HardNavigate implements ports.Navigator.
func (n *webNavigator) HardNavigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.target = path
}

// Pending returns the recorded navigation target.
func (n *webNavigator) Pending() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.target, n.target != ""
}

type sessionKey struct{}

// SetSessionInContext returns a child context that carries the request session.
// If rs is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, rs *RequestSession) context.Context {
	if rs == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, rs)
}

// GetSessionFromContext returns the request session, or nil when the Sessions middleware did not run.
func GetSessionFromContext(ctx context.Context) *RequestSession {
	rs, _ := ctx.Value(sessionKey{}).(*RequestSession)
	return rs
}

// SnapshotFromContext returns the session view for the request.
// Without a session the request is still bootstrapping.
func SnapshotFromContext(ctx context.Context) domainauth.Snapshot {
	if rs := GetSessionFromContext(ctx); rs != nil {
		return rs.Snapshot()
	}
	return domainauth.NewSnapshot(domainauth.StatusBootstrapping, nil, "")
}
