package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/target/recruit-admin/internal/guard"
	"github.com/target/recruit-admin/internal/observability/metrics"
)

// GuardOptions configures RequireAdmin.
type GuardOptions struct {
	Guard       guard.Guard
	Requirement guard.Requirement
	Metrics     *metrics.Metrics
	// Pending renders the loading page while the session is still bootstrapping.
	Pending http.Handler
}

// RequireAdmin applies the route guard to every request.
// Browsers are redirected with the guard's warning as a toast; API callers get 401/403 JSON.
func RequireAdmin(opts GuardOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			outcome := opts.Guard.Decide(SnapshotFromContext(r.Context()), opts.Requirement)
			opts.Metrics.ObserveGuard(string(outcome.Decision))

			switch outcome.Decision {
			case guard.Allow:
				next.ServeHTTP(w, r)
			case guard.Pending:
				renderPending(w, r, opts.Pending)
			case guard.RedirectToLogin:
				if target, ok := GetSessionFromContext(r.Context()).PendingNavigation(); ok {
					sessionExpired(w, r, target)
					return
				}
				if !IsBrowserRequest(r) {
					WriteError(w, ErrorParams{
						Code:    http.StatusUnauthorized,
						ErrCode: "authentication_required",
						Err:     errors.New(outcome.Warning),
					})
					return
				}
				redirectWithToast(w, r, loginURL(outcome.Redirect, redirectPathForRequest(r)), outcome.Warning, ToastError)
			case guard.RedirectToHome:
				if !IsBrowserRequest(r) {
					WriteError(w, ErrorParams{
						Code:    http.StatusForbidden,
						ErrCode: "insufficient_permissions",
						Err:     errors.New(outcome.Warning),
					})
					return
				}
				redirectWithToast(w, r, outcome.Redirect, outcome.Warning, ToastError)
			}
		})
	}
}

// sessionExpired answers a request whose credential the backend rejected while bootstrapping.
func sessionExpired(w http.ResponseWriter, r *http.Request, target string) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "session_expired",
			Err:     errors.New(MsgSessionExpired),
		})
		return
	}
	redirectWithToast(w, r, loginURL(target, redirectPathForRequest(r)), MsgSessionExpired, ToastError)
}

func renderPending(w http.ResponseWriter, r *http.Request, pending http.Handler) {
	w.Header().Set("Retry-After", "1")
	if pending == nil {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("Verifying authentication..."))
		return
	}
	pending.ServeHTTP(w, r)
}

// loginURL appends the page to return to after signing in.
func loginURL(loginPath, next string) string {
	if next == "" || next == "/" {
		return loginPath
	}
	return loginPath + "?next=" + url.QueryEscape(next)
}

func redirectPathForRequest(r *http.Request) string {
	if IsHTMX(r) {
		if current := safeRedirectFromURL(r.Header.Get("Hx-Current-Url")); current != "" {
			return current
		}
		if referer := safeRedirectFromURL(r.Header.Get("Referer")); referer != "" {
			return referer
		}
	}
	if r.Method != http.MethodGet {
		return ""
	}
	return safeRedirectPath(r.URL.RequestURI())
}

func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	// Reject scheme-relative or host-only references.
	if u.Host != "" && !u.IsAbs() {
		return ""
	}

	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}

	return safeRedirectPath(raw)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	return candidate
}
