package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/target/recruit-admin/internal/http/validation"
)

// Toast messages for sign-in and sign-out.
const (
	MsgLoginSuccess  = "Login successful!"
	MsgLogoutSuccess = "Logged out successfully"
)

// AuthHandlers provides the sign-in, sign-out and session status endpoints.
type AuthHandlers struct {
	UI        *UIHandlers
	HomePath  string
	LoginPath string
	Logger    *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) homePath() string {
	if h.HomePath == "" {
		return "/dashboard"
	}
	return h.HomePath
}

func (h *AuthHandlers) loginPath() string {
	if h.LoginPath == "" {
		return "/login"
	}
	return h.LoginPath
}

func loginMeta() PageMeta {
	return PageMeta{Title: "Admin Login", PageTitle: "Admin Login", CurrentPage: PageLogin}
}

// afterLogin returns where to go once signed in: a safe ?next= path or home.
func (h *AuthHandlers) afterLogin(r *http.Request) string {
	next := strings.TrimSpace(r.FormValue("next"))
	if next == "" {
		return h.homePath()
	}
	if target := safeRedirectPath(next); target != "/" && !strings.HasPrefix(target, h.loginPath()) {
		return target
	}
	return h.homePath()
}

// LoginPage renders the sign-in form.
// GET /login?next=<optional path>.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if SnapshotFromContext(r.Context()).IsAuthenticated {
		redirect(w, r, h.afterLogin(r))
		return
	}
	data := NewTemplateData(r, loginMeta()).
		With("Next", r.URL.Query().Get("next")).
		Build()
	h.UI.renderDashboardPage(w, r, data)
}

// Login exchanges the submitted credentials for an admin token.
// POST /login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	rs := GetSessionFromContext(r.Context())
	if rs == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "session_unavailable",
			Err:     errSessionUnavailable,
		})
		return
	}
	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	formData := map[string]any{
		"Username": username,
		"Next":     r.PostFormValue("next"),
	}

	v := validation.New().
		Validate("username", username, validation.Required("Username")).
		Validate("password", password, validation.Required("Password"))
	if !v.Valid() {
		RenderError(ErrorOpts{
			W: w, R: r,
			FieldErrors: v.Errors(),
			Renderer:    h.UI.renderDashboardPage,
			PageMeta:    loginMeta(),
			Data:        formData,
		})
		return
	}

	result := rs.Manager.Login(r.Context(), username, password)
	if !result.Success {
		h.logger().InfoContext(r.Context(), "admin login failed", "username", username)
		builder := NewTemplateData(r, loginMeta()).
			WithError(result.Message).
			WithFieldErrors(result.FieldErrors)
		for k, val := range formData {
			builder.With(k, val)
		}
		if IsHTMX(r) {
			HTMX(w).Toast(result.Message, ToastError)
		}
		h.UI.renderDashboardPage(w, r, builder.Build())
		return
	}

	h.logger().InfoContext(r.Context(), "admin signed in", "username", username)
	redirectWithToast(w, r, h.afterLogin(r), MsgLoginSuccess, ToastSuccess)
}

// Logout ends the admin session locally and returns to the sign-in page.
// POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if rs := GetSessionFromContext(r.Context()); rs != nil {
		rs.Manager.Logout()
	}
	redirectWithToast(w, r, h.loginPath(), MsgLogoutSuccess, ToastSuccess)
}

// Status returns the current authentication status.
// GET /api/session.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	snap := SnapshotFromContext(r.Context())
	body := map[string]any{
		"status":         snap.Status,
		"authenticated":  snap.IsAuthenticated,
		"is_super_admin": snap.IsSuperAdmin,
	}
	if snap.Principal != nil {
		body["admin"] = snap.Principal
	}
	WriteJSON(w, http.StatusOK, body)
}
