package httpx

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/target/recruit-admin/internal/http/ui/viewmodel"
)

// FlashCookieName carries a toast across a redirect.
const FlashCookieName = "flash"

const flashMaxAge = 60

type flashKey struct{}

// setFlash stores a toast for the next full page load.
func setFlash(w http.ResponseWriter, r *http.Request, message, toastType string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	b, err := json.Marshal(viewmodel.Toast{Message: message, Type: toastType})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil || isForwardedHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   flashMaxAge,
	})
}

// Flash returns a middleware that consumes the flash cookie and exposes its toast to templates.
func Flash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(FlashCookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			// HTMX swaps keep the cookie so the toast shows on the next full load.
			if WantsPartial(r) {
				next.ServeHTTP(w, r)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     FlashCookieName,
				Value:    "",
				Path:     "/",
				HttpOnly: true,
				MaxAge:   -1,
				SameSite: http.SameSiteLaxMode,
			})
			if toast, ok := decodeFlash(c.Value); ok {
				r = r.WithContext(context.WithValue(r.Context(), flashKey{}, toast))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func decodeFlash(raw string) (viewmodel.Toast, bool) {
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return viewmodel.Toast{}, false
	}
	var t viewmodel.Toast
	if err := json.Unmarshal(b, &t); err != nil || strings.TrimSpace(t.Message) == "" {
		return viewmodel.Toast{}, false
	}
	return t, true
}

// flashFromContext returns the toast consumed for this request, if any.
func flashFromContext(ctx context.Context) (viewmodel.Toast, bool) {
	t, ok := ctx.Value(flashKey{}).(viewmodel.Toast)
	return t, ok
}

// redirectWithToast sends the browser to target and shows message after the page loads.
// HTMX callers get HX-Redirect so the navigation is a full page load.
func redirectWithToast(w http.ResponseWriter, r *http.Request, target, message, toastType string) {
	setFlash(w, r, message, toastType)
	redirect(w, r, target)
}

// redirect performs a full navigation to target.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMX(r) {
		HTMX(w).Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
