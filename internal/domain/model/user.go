package model

import (
	"strings"
	"time"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
)

// Applicant is a platform user who can submit applications.
type Applicant struct {
	ID         string     `json:"id"                   yaml:"id"`
	Name       string     `json:"name,omitempty"       yaml:"name,omitempty"`
	Email      string     `json:"email"                yaml:"email"`
	Phone      string     `json:"phone,omitempty"      yaml:"phone,omitempty"`
	IsVerified bool       `json:"is_verified"          yaml:"is_verified"`
	CreatedAt  *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// UserListOptions filters the applicant list.
type UserListOptions struct {
	Page      int
	Limit     int
	Verified  string // "all", "true" or "false"
	Search    string
	SortBy    string
	SortOrder string
}

// UserList is one page of applicants.
type UserList struct {
	Users      []Applicant `json:"users"      yaml:"users"`
	Pagination Pagination  `json:"pagination" yaml:"pagination"`
}

// BulkDeleteResult reports how many applicants the backend removed.
type BulkDeleteResult struct {
	DeletedCount int `json:"deletedCount" yaml:"deleted_count"`
}

// CreateAdminRequest is the body used to create another admin account.
type CreateAdminRequest struct {
	Username        string          `json:"username"`
	FullName        string          `json:"full_name,omitempty"`
	Email           string          `json:"email"`
	Password        string          `json:"password"`
	ConfirmPassword string          `json:"-"`
	Role            domainauth.Role `json:"role"`
}

// MinPasswordLength is enforced locally before password-bearing requests are sent.
const MinPasswordLength = 8

// Validate returns field errors keyed by form field; empty means valid.
func (r CreateAdminRequest) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.Username) == "" {
		errs["username"] = "Username is required"
	}
	if strings.TrimSpace(r.Email) == "" {
		errs["email"] = "Email is required"
	} else if !strings.Contains(r.Email, "@") {
		errs["email"] = "Email is invalid"
	}
	validatePassword(errs, "password", "confirmPassword", r.Password, r.ConfirmPassword)
	if !r.Role.Valid() {
		errs["role"] = "Role must be admin or superadmin"
	}
	return errs
}

// UpdateProfileRequest edits the signed-in admin's profile.
type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Validate returns field errors keyed by form field; empty means valid.
func (r UpdateProfileRequest) Validate() map[string]string {
	errs := map[string]string{}
	name := strings.TrimSpace(r.FullName)
	switch {
	case name == "":
		errs["full_name"] = "Full name is required"
	case len(name) < 2:
		errs["full_name"] = "Full name must be at least 2 characters"
	}
	if strings.TrimSpace(r.Email) == "" {
		errs["email"] = "Email is required"
	} else if !strings.Contains(r.Email, "@") {
		errs["email"] = "Email is invalid"
	}
	return errs
}

// ChangePasswordRequest rotates the signed-in admin's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"-"`
}

// Validate returns field errors keyed by form field; empty means valid.
func (r ChangePasswordRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.CurrentPassword == "" {
		errs["currentPassword"] = "Current password is required"
	}
	validatePassword(errs, "newPassword", "confirmPassword", r.NewPassword, r.ConfirmPassword)
	return errs
}

func validatePassword(errs map[string]string, field, confirmField, password, confirm string) {
	switch {
	case password == "":
		errs[field] = "Password is required"
	case len(password) < MinPasswordLength:
		errs[field] = "Password must be at least 8 characters"
	}
	switch {
	case confirm == "":
		errs[confirmField] = "Confirm password is required"
	case confirm != password:
		errs[confirmField] = "Passwords do not match"
	}
}
