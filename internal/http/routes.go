package httpx

import (
	"bytes"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"regexp"

	recruitadmin "github.com/target/recruit-admin"
	"github.com/target/recruit-admin/internal/guard"
	"github.com/target/recruit-admin/internal/observability/metrics"
)

// RouterServices holds everything the console router needs.
type RouterServices struct {
	Sessions *SessionFactory
	// TemplateFS overrides the template filesystem (tests). Defaults to disk in dev mode, embedded otherwise.
	TemplateFS fs.FS
	Metrics    *metrics.Metrics
	// MetricsPath exposes Prometheus metrics when non-empty and Metrics is set.
	MetricsPath string
	CSRF        CSRFConfig
	// Compression is disabled when nil.
	Compression  *CompressionConfig
	LoginPath    string
	HomePath     string
	HealthChecks map[string]HealthCheck
	IsDev        bool         // Development mode flag for hot reloading, etc.
	Logger       *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates the console handler: infrastructure routes, then the session-aware app.
func NewRouter(services RouterServices) http.Handler {
	root := http.NewServeMux()

	health := newHealthHandler(services.HealthChecks)
	root.Handle("GET /healthz", health)
	root.Handle("HEAD /healthz", health)
	if services.Metrics != nil && services.MetricsPath != "" {
		root.Handle("GET "+services.MetricsPath, services.Metrics.Handler())
	}
	root.Handle("GET /static/", staticWithFallback(services.IsDev))

	g := guard.Guard{LoginPath: services.LoginPath, HomePath: services.HomePath}
	uiHandlers := setupUIHandlers(services, g)

	app := http.NewServeMux()
	if uiHandlers != nil {
		registerAuthRoutes(app, &AuthHandlers{
			UI:        uiHandlers,
			HomePath:  services.HomePath,
			LoginPath: services.LoginPath,
			Logger:    services.Logger,
		})
		registerUIRoutes(app, uiHandlers, uiRouteConfig{Guard: g, Metrics: services.Metrics})
	}

	var appHandler http.Handler = &notFoundHandler{mux: app, uiHandlers: uiHandlers}
	if services.Sessions != nil {
		appHandler = Sessions(services.Sessions)(appHandler)
	}
	appHandler = CSRFProtection(services.CSRF)(appHandler)
	appHandler = Flash()(appHandler)
	root.Handle("/", appHandler)

	var handler http.Handler = root
	handler = BrowserDetection()(handler)
	if services.Compression != nil {
		handler = Compression(*services.Compression)(handler)
	}
	handler = Logging(services.Logger)(handler)
	handler = Recover(services.Logger)(handler)
	handler = RealIP(handler)
	return RequestID(handler)
}

// templateFS picks the template source: override, disk in dev mode, or the embedded copy.
func templateFS(services RouterServices) fs.FS {
	if services.TemplateFS != nil {
		return services.TemplateFS
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(recruitadmin.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		log.Printf("failed to create sub-filesystem for templates: %v", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// setupUIHandlers creates UI handlers with the template renderer.
func setupUIHandlers(services RouterServices, g guard.Guard) *UIHandlers {
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(services),
		DevMode:    services.IsDev,
		Logger:     services.Logger,
	})
	if err != nil {
		if services.Logger != nil {
			services.Logger.Error("failed to create template renderer", slog.Any("error", err))
		} else {
			log.Printf("ERROR: failed to create template renderer: %v", err)
		}
		return nil
	}

	return &UIHandlers{
		T:       tr,
		Guard:   g,
		Metrics: services.Metrics,
		IsDev:   services.IsDev,
		Logger:  services.Logger,
	}
}

// staticWithFallback serves /static/* assets.
// In dev mode (isDev=true), serves from disk for hot reloading.
// In production mode (isDev=false), serves from embedded FS.
func staticWithFallback(isDev bool) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}

	staticSub, err := fs.Sub(recruitadmin.StaticFS, "frontend/static")
	if err != nil {
		log.Printf("failed to create sub-filesystem for static assets: %v", err)
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
}

// hashedFilePattern matches content-hashed filenames such as app.abc12345.js.
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and renders the console's 404 page for unmatched paths.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP implements http.Handler.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}

	// Unmatched: capture the mux answer to tell a 405 from a 404.
	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)
	if cw.status != http.StatusNotFound || h.uiHandlers == nil || !IsBrowserRequest(r) {
		cw.flushTo(w)
		return
	}
	h.uiHandlers.NotFound(w, r)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		log.Printf("failed to write captured response: %v", err)
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	login := h.loginPath()
	mux.HandleFunc("GET "+login, h.LoginPage)
	mux.HandleFunc("POST "+login, h.Login)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /api/session", h.Status)
}

// uiRouteConfig holds configuration for UI route registration.
type uiRouteConfig struct {
	Guard   guard.Guard
	Metrics *metrics.Metrics
}

func (cfg uiRouteConfig) wrap(h *UIHandlers, req guard.Requirement) func(http.HandlerFunc) http.Handler {
	mw := RequireAdmin(GuardOptions{
		Guard:       cfg.Guard,
		Requirement: req,
		Metrics:     cfg.Metrics,
		Pending:     http.HandlerFunc(h.Pending),
	})
	return func(fn http.HandlerFunc) http.Handler { return mw(fn) }
}

// authWrap requires a signed-in admin.
func (cfg uiRouteConfig) authWrap(h *UIHandlers) func(http.HandlerFunc) http.Handler {
	return cfg.wrap(h, guard.Requirement{})
}

// superWrap requires a signed-in super admin.
func (cfg uiRouteConfig) superWrap(h *UIHandlers) func(http.HandlerFunc) http.Handler {
	return cfg.wrap(h, guard.Requirement{RequireSuperAdmin: true})
}

// registerUIRoutes delegates to per-area UI route registration functions.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	registerUIDashboardRoutes(mux, h, cfg)
	registerUIApplicationRoutes(mux, h, cfg)
	registerUIUserRoutes(mux, h, cfg)
	registerUIAdminRoutes(mux, h, cfg)
	registerUIProfileRoutes(mux, h, cfg)
}

func registerUIDashboardRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap(h)
	mux.Handle("GET /{$}", http.HandlerFunc(h.Home))
	mux.Handle("GET /dashboard", wrap(h.Dashboard))
}

func registerUIApplicationRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap(h)
	mux.Handle("GET /applications", wrap(h.Applications))
	mux.Handle("GET /applications/{id}", wrap(h.Application))
	mux.Handle("GET /applications/{id}/documents/{name}", wrap(h.ApplicationDocument))
	mux.Handle("POST /applications/{id}/status", wrap(h.UpdateApplicationStatus))
	mux.Handle("POST /applications/{id}/delete", wrap(h.DeleteApplication))
}

func registerUIUserRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap(h)
	mux.Handle("GET /users", wrap(h.Users))
	mux.Handle("POST /users/bulk-delete", wrap(h.BulkDeleteUsers))
	mux.Handle("POST /users/{id}/delete", wrap(h.DeleteUser))
	mux.Handle("POST /users/{id}/verify", wrap(h.VerifyUser))
}

func registerUIAdminRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.superWrap(h)
	mux.Handle("GET /admins", wrap(h.Admins))
	mux.Handle("GET /admins/new", wrap(h.NewAdminForm))
	mux.Handle("POST /admins", wrap(h.CreateAdmin))
	mux.Handle("POST /admins/{id}/role", wrap(h.SetAdminRole))
	mux.Handle("POST /admins/{id}/status", wrap(h.SetAdminStatus))
}

func registerUIProfileRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap(h)
	mux.Handle("GET /profile", wrap(h.Profile))
	mux.Handle("POST /profile", wrap(h.UpdateProfile))
	mux.Handle("POST /profile/password", wrap(h.ChangePassword))
}
