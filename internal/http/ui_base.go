package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/guard"
	"github.com/target/recruit-admin/internal/observability/metrics"
	"github.com/target/recruit-admin/internal/ports"
	"github.com/target/recruit-admin/internal/service"
)

// MsgSessionExpired is shown after the backend rejected the admin credential mid-request.
const MsgSessionExpired = "Session expired. Please login again."

// UIHandlers serves the server-rendered admin console.
// Services are built per request around the request's token-bound backend.
type UIHandlers struct {
	T       *TemplateRenderer
	Guard   guard.Guard
	Metrics *metrics.Metrics
	IsDev   bool
	Logger  *slog.Logger
}

func (h *UIHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) backend(r *http.Request) ports.Backend {
	if rs := GetSessionFromContext(r.Context()); rs != nil {
		return rs.Backend
	}
	return nil
}

func (h *UIHandlers) applications(r *http.Request) *service.ApplicationService {
	return service.NewApplicationService(service.ApplicationServiceOptions{API: h.backend(r), Logger: h.Logger})
}

func (h *UIHandlers) users(r *http.Request) *service.UserService {
	return service.NewUserService(service.UserServiceOptions{API: h.backend(r), Logger: h.Logger})
}

func (h *UIHandlers) admins(r *http.Request) *service.AdminService {
	return service.NewAdminService(service.AdminServiceOptions{API: h.backend(r), Logger: h.Logger})
}

func (h *UIHandlers) profile(r *http.Request) *service.ProfileService {
	return service.NewProfileService(service.ProfileServiceOptions{API: h.backend(r), Logger: h.Logger})
}

func (h *UIHandlers) dashboard(r *http.Request) *service.DashboardService {
	b := h.backend(r)
	return service.NewDashboardService(service.DashboardServiceOptions{Applications: b, Users: b, Logger: h.Logger})
}

// PageSpec describes a page render with an optional data fetch.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page renders a standard page, running spec.Fetch first.
// A fetch failure renders the page with an error banner unless it ended the session.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			if h.sessionEnded(w, r) {
				return
			}
			h.logger().WarnContext(r.Context(), "page fetch failed",
				"page", spec.Meta.CurrentPage,
				"error", err,
			)
			data["Error"] = true
			data["ErrorMessage"] = processError(err)
			if status := DetermineErrorStatus(err); status != 0 {
				writeHTMLStatus(w, status)
			}
		}
	}
	h.renderDashboardPage(w, r, data)
}

// sessionEnded answers with a redirect to login when a backend 401 forced a logout during this request.
func (h *UIHandlers) sessionEnded(w http.ResponseWriter, r *http.Request) bool {
	target, ok := GetSessionFromContext(r.Context()).PendingNavigation()
	if !ok {
		return false
	}
	redirectWithToast(w, r, target, MsgSessionExpired, ToastError)
	return true
}

// actionDone finishes a successful mutation by returning to back with a success toast.
func (h *UIHandlers) actionDone(w http.ResponseWriter, r *http.Request, back, message string) {
	redirectWithToast(w, r, back, message, ToastSuccess)
}

// actionFailed reports a failed mutation. HTMX callers keep the page and get a toast;
// full form posts return to back with the message.
func (h *UIHandlers) actionFailed(w http.ResponseWriter, r *http.Request, back string, err error) {
	if h.sessionEnded(w, r) {
		return
	}
	msg := processError(err)
	h.logger().WarnContext(r.Context(), "admin action failed", "path", r.URL.Path, "error", err)
	if IsHTMX(r) {
		HTMX(w).Toast(msg, ToastError)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	redirectWithToast(w, r, back, msg, ToastError)
}

// formFailed re-renders a form page with the failure, unless the session ended.
func (h *UIHandlers) formFailed(w http.ResponseWriter, r *http.Request, meta PageMeta, err error, data map[string]any) {
	if h.sessionEnded(w, r) {
		return
	}
	RenderError(ErrorOpts{
		W:          w,
		R:          r,
		Err:        err,
		Renderer:   h.renderDashboardPage,
		PageMeta:   meta,
		Data:       data,
		StatusCode: DetermineErrorStatus(err),
	})
}

func (h *UIHandlers) renderDashboardPage(w http.ResponseWriter, r *http.Request, data any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	// For HTMX requests, render the content plus out-of-band header updates
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Hint client JS to update nav active state based on current path
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	layout := extractLayoutInfo(data)

	// Include a <title> element so htmx updates document.title on partial swaps
	safeDocTitle := html.EscapeString(layout.Title)
	if _, err := w.Write([]byte(`<title>` + safeDocTitle + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}

	safeTitle := html.EscapeString(layout.PageTitle)
	if _, err := w.Write([]byte(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + safeTitle + `</h1>`)); err != nil {
		h.logger().Error("failed to write partial header title", "error", err)
		return
	}

	if err := h.T.Execute(w, ContentTemplateFor(layout.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

type layoutInfo struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

func extractLayoutInfo(data any) layoutInfo {
	m, ok := data.(map[string]any)
	if !ok {
		return layoutInfo{}
	}
	var out layoutInfo
	out.Title, _ = m["Title"].(string)
	out.PageTitle, _ = m["PageTitle"].(string)
	out.CurrentPage, _ = m["CurrentPage"].(string)
	return out
}

func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	// In dev mode, show detailed error in the response
	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		errHTML := html.EscapeString(err.Error())
		pathHTML := html.EscapeString(r.URL.Path)
		contextHTML := html.EscapeString(context)
		if _, writeErr := w.Write([]byte(`<div class="template-error">
	<h2>Template Rendering Error</h2>
	<p><strong>Context:</strong> ` + contextHTML + `</p>
	<p><strong>Path:</strong> ` + pathHTML + `</p>
	<pre>` + errHTML + `</pre>
</div>`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// Pending renders the loading page shown while the session is being verified.
func (h *UIHandlers) Pending(w http.ResponseWriter, r *http.Request) {
	writeHTMLStatus(w, http.StatusAccepted)
	h.renderDashboardPage(w, r, basePageData(r, PageMeta{
		Title:       "Verifying authentication...",
		PageTitle:   "Verifying authentication...",
		CurrentPage: PagePending,
	}))
}

// NotFound renders the not-found page.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeHTMLStatus(w, http.StatusNotFound)
	h.renderDashboardPage(w, r, basePageData(r, PageMeta{
		Title:       "Not Found",
		PageTitle:   "Page not found",
		CurrentPage: PageNotFound,
	}))
}

// principalFrom returns the signed-in admin. Guarded handlers always have one.
func principalFrom(r *http.Request) (domainauth.Principal, bool) {
	snap := SnapshotFromContext(r.Context())
	if snap.Principal == nil {
		return domainauth.Principal{}, false
	}
	return *snap.Principal, true
}

// writeHTMLStatus sets a non-200 status ahead of a template render.
func writeHTMLStatus(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
}
