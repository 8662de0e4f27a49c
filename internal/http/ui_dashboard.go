package httpx

import (
	"context"
	"net/http"
)

// Dashboard renders the landing page with applicant and application counts.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Dashboard", PageTitle: "Dashboard", CurrentPage: PageDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			stats, err := h.dashboard(r).Stats(ctx)
			if err != nil {
				return err
			}
			data["Stats"] = stats
			return nil
		},
	})
}

// Home sends / to the dashboard.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	target := h.Guard.HomePath
	if target == "" {
		target = "/dashboard"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
