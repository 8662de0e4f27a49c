package httpx

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/target/recruit-admin/internal/domain/model"
	apperrors "github.com/target/recruit-admin/internal/errors"
)

const applicationsPath = "/applications"

func applicationsMeta() PageMeta {
	return PageMeta{Title: "Applications", PageTitle: "Applications", CurrentPage: PageApplications}
}

func applicationPath(id string) string {
	return applicationsPath + "/" + url.PathEscape(id)
}

// Applications lists applications with status and search filters.
func (h *UIHandlers) Applications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := pageParams(q)
	status := strings.TrimSpace(q.Get("status"))
	if status == "" {
		status = model.FilterAll
	}
	search := strings.TrimSpace(q.Get("search"))

	h.Page(w, r, PageSpec{
		Meta: applicationsMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Status"] = status
			data["Search"] = search
			data["Statuses"] = model.ApplicationStatuses()
			list, err := h.applications(r).List(ctx, model.ApplicationListOptions{
				Page:   page,
				Limit:  limit,
				Status: status,
				Search: search,
			})
			if err != nil {
				return err
			}
			data["Applications"] = list.Applications
			setPagination(data, r, paginationParams{
				BasePath:   applicationsPath,
				Pagination: list.Pagination,
				Limit:      limit,
				Count:      len(list.Applications),
			})
			return nil
		},
	})
}

// Application shows one application with its review history.
func (h *UIHandlers) Application(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Application", PageTitle: "Application Details", CurrentPage: PageApplication},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Statuses"] = model.ApplicationStatuses()
			app, err := h.applications(r).Get(ctx, id)
			if err != nil {
				return err
			}
			data["Application"] = app
			return nil
		},
	})
}

// ApplicationDocument serves one document of an application.
// Images and PDFs open inline unless ?download=1; other types are always downloaded.
// Link-only documents redirect to their URL.
// GET /applications/{id}/documents/{name}.
func (h *UIHandlers) ApplicationDocument(w http.ResponseWriter, r *http.Request) {
	id, name := r.PathValue("id"), r.PathValue("name")
	back := applicationPath(id)
	doc, err := h.applications(r).Document(r.Context(), id, name)
	if err != nil {
		h.actionFailed(w, r, back, err)
		return
	}
	if !doc.HasData() {
		http.Redirect(w, r, doc.URL, http.StatusFound)
		return
	}
	contentType, data, err := doc.Content()
	if err != nil {
		h.actionFailed(w, r, back, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Failed to download document"))
		return
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	disposition := "attachment"
	if doc.Viewable() && r.URL.Query().Get("download") == "" {
		disposition = "inline"
	}
	filename := doc.FileName
	if filename == "" {
		filename = name
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "sandbox")
	w.Header().Set("Cache-Control", "private, no-store")
	if _, err := w.Write(data); err != nil {
		h.logger().WarnContext(r.Context(), "document write failed", "application_id", id, "document", name, "error", err)
	}
}

// UpdateApplicationStatus moves an application to a new status with an optional note.
// POST /applications/{id}/status.
func (h *UIHandlers) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	back := applicationPath(id)
	if err := r.ParseForm(); err != nil {
		h.actionFailed(w, r, back, err)
		return
	}
	req := model.UpdateApplicationStatusRequest{
		Status: model.ApplicationStatus(strings.TrimSpace(r.PostFormValue("status"))),
		Note:   r.PostFormValue("note"),
	}
	if err := h.applications(r).UpdateStatus(r.Context(), id, req); err != nil {
		h.actionFailed(w, r, returnPath(r, back), err)
		return
	}
	h.actionDone(w, r, returnPath(r, back), "Application status updated successfully")
}

// DeleteApplication removes an application.
// POST /applications/{id}/delete.
func (h *UIHandlers) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.applications(r).Delete(r.Context(), id); err != nil {
		h.actionFailed(w, r, returnPath(r, applicationsPath), err)
		return
	}
	h.actionDone(w, r, applicationsPath, "Application deleted successfully")
}

// returnPath honors a safe "return" form value so list actions land back on the same page.
func returnPath(r *http.Request, fallback string) string {
	if v := strings.TrimSpace(r.FormValue("return")); v != "" {
		if p := safeRedirectPath(v); p != "/" {
			return p
		}
	}
	return fallback
}
