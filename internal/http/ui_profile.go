package httpx

import (
	"net/http"
	"strings"

	"github.com/target/recruit-admin/internal/domain/model"
)

const profilePath = "/profile"

func profileMeta() PageMeta {
	return PageMeta{Title: "Profile", PageTitle: "My Profile", CurrentPage: PageProfile}
}

func profileForm(r *http.Request) model.UpdateProfileRequest {
	me, _ := principalFrom(r)
	return model.UpdateProfileRequest{FullName: me.FullName, Email: me.Email}
}

// Profile shows the signed-in admin's account with the profile and password forms.
func (h *UIHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	me, _ := principalFrom(r)
	data := NewTemplateData(r, profileMeta()).
		With("Profile", me).
		With("Form", profileForm(r)).
		Build()
	h.renderDashboardPage(w, r, data)
}

// UpdateProfile saves the profile and refreshes the session's principal.
// POST /profile.
func (h *UIHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	rs := GetSessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		h.actionFailed(w, r, profilePath, err)
		return
	}
	req := model.UpdateProfileRequest{
		FullName: strings.TrimSpace(r.PostFormValue("full_name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
	}
	if err := h.profile(r).Update(r.Context(), rs.Manager, req); err != nil {
		me, _ := principalFrom(r)
		h.formFailed(w, r, profileMeta(), err, map[string]any{
			"Profile": me,
			"Form":    req,
		})
		return
	}
	h.actionDone(w, r, profilePath, "Profile updated successfully!")
}

// ChangePassword rotates the signed-in admin's password.
// POST /profile/password.
func (h *UIHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.actionFailed(w, r, profilePath, err)
		return
	}
	req := model.ChangePasswordRequest{
		CurrentPassword: r.PostFormValue("currentPassword"),
		NewPassword:     r.PostFormValue("newPassword"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
	if err := h.profile(r).ChangePassword(r.Context(), req); err != nil {
		me, _ := principalFrom(r)
		h.formFailed(w, r, profileMeta(), err, map[string]any{
			"Profile":       me,
			"Form":          profileForm(r),
			"PasswordError": true,
		})
		return
	}
	h.actionDone(w, r, profilePath, "Password updated successfully!")
}
