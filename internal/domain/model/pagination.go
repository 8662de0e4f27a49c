package model

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPageLimit is used when a list request does not specify a limit.
	DefaultPageLimit = 10
	// MaxPageLimit caps the page size requested from the backend.
	MaxPageLimit = 100
	// FilterAll disables a status-like filter.
	FilterAll = "all"
)

// Pagination mirrors the backend's pagination block.
type Pagination struct {
	CurrentPage int  `json:"currentPage" yaml:"current_page"`
	TotalPages  int  `json:"totalPages"  yaml:"total_pages"`
	Total       int  `json:"total"       yaml:"total"`
	HasNextPage bool `json:"hasNextPage" yaml:"has_next_page"`
	HasPrevPage bool `json:"hasPrevPage" yaml:"has_prev_page"`
}

// UnmarshalJSON accepts the per-resource total keys the backend uses
// (totalUsers, totalApplications) in addition to total.
func (p *Pagination) UnmarshalJSON(data []byte) error {
	var raw struct {
		CurrentPage       int  `json:"currentPage"`
		TotalPages        int  `json:"totalPages"`
		Total             *int `json:"total"`
		TotalUsers        *int `json:"totalUsers"`
		TotalApplications *int `json:"totalApplications"`
		TotalItems        *int `json:"totalItems"`
		HasNextPage       bool `json:"hasNextPage"`
		HasPrevPage       bool `json:"hasPrevPage"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Pagination{
		CurrentPage: raw.CurrentPage,
		TotalPages:  raw.TotalPages,
		HasNextPage: raw.HasNextPage,
		HasPrevPage: raw.HasPrevPage,
	}
	for _, v := range []*int{raw.Total, raw.TotalUsers, raw.TotalApplications, raw.TotalItems} {
		if v != nil {
			p.Total = *v
			break
		}
	}
	if !raw.HasNextPage && p.TotalPages > p.CurrentPage {
		p.HasNextPage = true
	}
	if !raw.HasPrevPage && p.CurrentPage > 1 {
		p.HasPrevPage = true
	}
	return nil
}

// NormalizePage clamps page and limit to sane values.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// Query encodes application list options as backend query parameters.
func (o ApplicationListOptions) Query() url.Values {
	page, limit := NormalizePage(o.Page, o.Limit)
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if s := strings.TrimSpace(o.Status); s != "" && s != FilterAll {
		q.Set("status", s)
	}
	if s := strings.TrimSpace(o.Search); s != "" {
		q.Set("search", s)
	}
	return q
}

// Query encodes user list options as backend query parameters.
func (o UserListOptions) Query() url.Values {
	page, limit := NormalizePage(o.Page, o.Limit)
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if v := strings.TrimSpace(o.Verified); v == "true" || v == "false" {
		q.Set("verified", v)
	}
	if s := strings.TrimSpace(o.Search); s != "" {
		q.Set("search", s)
	}
	sortBy := strings.TrimSpace(o.SortBy)
	if sortBy == "" {
		sortBy = "created_at"
	}
	q.Set("sortBy", sortBy)
	order := strings.ToLower(strings.TrimSpace(o.SortOrder))
	if order != "asc" {
		order = "desc"
	}
	q.Set("sortOrder", order)
	return q
}
