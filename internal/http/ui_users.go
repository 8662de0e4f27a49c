package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/target/recruit-admin/internal/domain/model"
)

const usersPath = "/users"

// Users lists applicants with search and verification filters.
func (h *UIHandlers) Users(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := pageParams(q)
	verified := strings.TrimSpace(q.Get("verified"))
	if verified != "true" && verified != "false" {
		verified = model.FilterAll
	}
	search := strings.TrimSpace(q.Get("search"))

	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Users", PageTitle: "Users", CurrentPage: PageUsers},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Verified"] = verified
			data["Search"] = search
			list, err := h.users(r).List(ctx, model.UserListOptions{
				Page:      page,
				Limit:     limit,
				Verified:  verified,
				Search:    search,
				SortBy:    q.Get("sortBy"),
				SortOrder: q.Get("sortOrder"),
			})
			if err != nil {
				return err
			}
			data["Users"] = list.Users
			setPagination(data, r, paginationParams{
				BasePath:   usersPath,
				Pagination: list.Pagination,
				Limit:      limit,
				Count:      len(list.Users),
			})
			return nil
		},
	})
}

// DeleteUser removes one applicant.
// POST /users/{id}/delete.
func (h *UIHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	back := returnPath(r, usersPath)
	if err := h.users(r).Delete(r.Context(), r.PathValue("id")); err != nil {
		h.actionFailed(w, r, back, err)
		return
	}
	h.actionDone(w, r, back, "User deleted successfully")
}

// BulkDeleteUsers removes every selected applicant.
// POST /users/bulk-delete with ids repeated per selection.
func (h *UIHandlers) BulkDeleteUsers(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.actionFailed(w, r, usersPath, err)
		return
	}
	back := returnPath(r, usersPath)
	res, err := h.users(r).BulkDelete(r.Context(), r.PostForm["ids"])
	if err != nil {
		h.actionFailed(w, r, back, err)
		return
	}
	h.actionDone(w, r, back, fmt.Sprintf("%d users deleted successfully", res.DeletedCount))
}

// VerifyUser marks an applicant verified or unverified.
// POST /users/{id}/verify with verified=true|false.
func (h *UIHandlers) VerifyUser(w http.ResponseWriter, r *http.Request) {
	back := returnPath(r, usersPath)
	verified, err := strconv.ParseBool(strings.TrimSpace(r.FormValue("verified")))
	if err != nil {
		verified = true
	}
	if err := h.users(r).SetVerified(r.Context(), r.PathValue("id"), verified); err != nil {
		h.actionFailed(w, r, back, err)
		return
	}
	state := "unverified"
	if verified {
		state = "verified"
	}
	h.actionDone(w, r, back, "User "+state+" successfully")
}
