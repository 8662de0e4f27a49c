package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/target/recruit-admin/internal/domain/model"
	"github.com/target/recruit-admin/internal/http/ui/viewmodel"
)

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request and its admin session.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}

	snap := SnapshotFromContext(r.Context())
	if snap.IsAuthenticated && snap.Principal != nil {
		layout.IsAuthenticated = true
		layout.CanManageAdmins = snap.IsSuperAdmin
		layout.User = &viewmodel.User{
			ID:           snap.Principal.ID,
			Username:     snap.Principal.Username,
			DisplayName:  snap.Principal.DisplayName(),
			Role:         string(snap.Principal.Role),
			IsSuperAdmin: snap.IsSuperAdmin,
		}
	}
	if toast, ok := flashFromContext(r.Context()); ok {
		layout.Toast = &toast
	}
	return layout
}

// basePageData constructs the common page data map with admin context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"CanManageAdmins": layout.CanManageAdmins,
		"CSRFToken":       layout.CSRFToken,
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	if layout.Toast != nil {
		data["Toast"] = layout.Toast
	}
	return data
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// WithPagination adds a page block and links that keep the current filters.
func (b *TemplateDataBuilder) WithPagination(basePath string, p model.Pagination, limit, count int) *TemplateDataBuilder {
	setPagination(b.data, b.r, paginationParams{BasePath: basePath, Pagination: p, Limit: limit, Count: count})
	return b
}

type paginationParams struct {
	BasePath   string
	Pagination model.Pagination
	Limit      int
	Count      int
}

func setPagination(data map[string]any, r *http.Request, pp paginationParams) {
	p := pp.Pagination
	page := p.CurrentPage
	if page < 1 {
		page = 1
	}
	vm := viewmodel.NewPagination(page, pp.Limit, p.TotalPages, p.Total, pp.Count)
	vm.HasPrev = vm.HasPrev || p.HasPrevPage
	vm.HasNext = vm.HasNext || p.HasNextPage
	if vm.HasPrev {
		vm.PrevURL = buildPageURL(pp.BasePath, r.URL.Query(), page-1, pp.Limit)
	}
	if vm.HasNext {
		vm.NextURL = buildPageURL(pp.BasePath, r.URL.Query(), page+1, pp.Limit)
	}
	data["Pagination"] = vm
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// buildPageURL returns basePath with page and limit set, preserving other non-blank query params.
func buildPageURL(basePath string, q url.Values, page, limit int) string {
	qq := make(url.Values, len(q))
	for k, vs := range q {
		if strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") {
			continue
		}
		for _, v := range vs {
			if strings.TrimSpace(v) != "" {
				qq.Add(k, v)
			}
		}
	}
	qq.Set("page", strconv.Itoa(page))
	qq.Set("limit", strconv.Itoa(limit))
	return basePath + "?" + qq.Encode()
}

// pageParams parses page and limit with the backend's defaults.
func pageParams(q url.Values) (int, int) {
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return model.NormalizePage(page, limit)
}
