package httpx

import (
	"context"
	"net/http"
	"strings"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
	apperrors "github.com/target/recruit-admin/internal/errors"
)

const adminsPath = "/admins"

func adminFormMeta() PageMeta {
	return PageMeta{Title: "Create Admin", PageTitle: "Create New Admin", CurrentPage: PageAdminForm}
}

func adminRoles() []domainauth.Role {
	return []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleSuperAdmin}
}

// Admins lists every admin account. Super admin only.
func (h *UIHandlers) Admins(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Manage Admins", PageTitle: "Manage Admins", CurrentPage: PageAdmins},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Roles"] = adminRoles()
			if me, ok := principalFrom(r); ok {
				data["CurrentAdminID"] = me.ID
			}
			admins, err := h.admins(r).List(ctx)
			if err != nil {
				return err
			}
			data["Admins"] = admins
			return nil
		},
	})
}

// SetAdminRole changes another admin's role.
// POST /admins/{id}/role with role=admin|superadmin.
func (h *UIHandlers) SetAdminRole(w http.ResponseWriter, r *http.Request) {
	me, _ := principalFrom(r)
	role, err := domainauth.ParseRole(r.FormValue("role"))
	if err != nil {
		h.actionFailed(w, r, adminsPath, apperrors.ValidationField("role", "Role must be admin or superadmin"))
		return
	}
	if err := h.admins(r).SetRole(r.Context(), me, r.PathValue("id"), role); err != nil {
		h.actionFailed(w, r, adminsPath, err)
		return
	}
	h.actionDone(w, r, adminsPath, "Admin role updated successfully")
}

// SetAdminStatus activates or deactivates another admin.
// POST /admins/{id}/status with active=true|false.
func (h *UIHandlers) SetAdminStatus(w http.ResponseWriter, r *http.Request) {
	me, _ := principalFrom(r)
	active := strings.TrimSpace(r.FormValue("active")) == "true"
	if err := h.admins(r).SetActive(r.Context(), me, r.PathValue("id"), active); err != nil {
		h.actionFailed(w, r, adminsPath, err)
		return
	}
	msg := "Admin deactivated successfully"
	if active {
		msg = "Admin activated successfully"
	}
	h.actionDone(w, r, adminsPath, msg)
}

// NewAdminForm renders the create-admin form.
// GET /admins/new.
func (h *UIHandlers) NewAdminForm(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, adminFormMeta()).
		With("Roles", adminRoles()).
		With("Form", model.CreateAdminRequest{Role: domainauth.RoleAdmin}).
		Build()
	h.renderDashboardPage(w, r, data)
}

// CreateAdmin creates a new admin account.
// POST /admins.
func (h *UIHandlers) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.actionFailed(w, r, adminsPath+"/new", err)
		return
	}
	req := model.CreateAdminRequest{
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		FullName:        strings.TrimSpace(r.PostFormValue("full_name")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
		Role:            domainauth.Role(strings.TrimSpace(r.PostFormValue("role"))),
	}
	if err := h.admins(r).Create(r.Context(), req); err != nil {
		req.Password, req.ConfirmPassword = "", ""
		h.formFailed(w, r, adminFormMeta(), err, map[string]any{
			"Roles": adminRoles(),
			"Form":  req,
		})
		return
	}
	h.actionDone(w, r, adminsPath, "Admin created successfully!")
}
