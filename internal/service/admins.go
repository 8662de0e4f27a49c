package service

import (
	"context"
	"log/slog"
	"strings"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
	apperrors "github.com/target/recruit-admin/internal/errors"
	"github.com/target/recruit-admin/internal/ports"
)

// Messages for actions an admin may not take on their own account.
const (
	ErrMsgOwnStatus = "Cannot change your own status"
	ErrMsgOwnRole   = "Cannot change your own role"
)

// formErrorMessage heads a form that failed local validation.
const formErrorMessage = "Please fix the errors below."

// AdminServiceOptions groups dependencies for AdminService.
type AdminServiceOptions struct {
	API    ports.AdminsAPI
	Logger *slog.Logger
}

// AdminService manages admin accounts. Callers enforce the super admin requirement.
type AdminService struct {
	api    ports.AdminsAPI
	logger *slog.Logger
}

// NewAdminService constructs a new AdminService.
func NewAdminService(opts AdminServiceOptions) *AdminService {
	return &AdminService{api: opts.API, logger: opts.Logger}
}

func (s *AdminService) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// List returns every admin account.
func (s *AdminService) List(ctx context.Context) ([]domainauth.Principal, error) {
	admins, err := s.api.ListAdmins(ctx)
	if err != nil {
		return nil, apperrors.FromAPI(err)
	}
	return admins, nil
}

// SetRole changes another admin's role. actor is the signed-in admin.
func (s *AdminService) SetRole(ctx context.Context, actor domainauth.Principal, id string, role domainauth.Role) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.Validation("admin id is required")
	}
	if isSelf(actor, id) {
		return apperrors.Forbidden(ErrMsgOwnRole)
	}
	if !role.Valid() {
		return apperrors.ValidationField("role", "Role must be admin or superadmin")
	}
	if err := s.api.SetAdminRole(ctx, id, role); err != nil {
		return apperrors.FromAPI(err)
	}
	s.log().InfoContext(ctx, "admin role changed", "admin_id", id, "role", role, "by", actor.Username)
	return nil
}

// SetActive activates or deactivates another admin. actor is the signed-in admin.
func (s *AdminService) SetActive(ctx context.Context, actor domainauth.Principal, id string, active bool) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.Validation("admin id is required")
	}
	if isSelf(actor, id) {
		return apperrors.Forbidden(ErrMsgOwnStatus)
	}
	if err := s.api.SetAdminActive(ctx, id, active); err != nil {
		return apperrors.FromAPI(err)
	}
	s.log().InfoContext(ctx, "admin status changed", "admin_id", id, "active", active, "by", actor.Username)
	return nil
}

// Create validates req locally and then creates the admin account.
func (s *AdminService) Create(ctx context.Context, req model.CreateAdminRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Role == "" {
		req.Role = domainauth.RoleAdmin
	}
	if errs := req.Validate(); len(errs) > 0 {
		return apperrors.ValidationFields(formErrorMessage, errs)
	}
	if err := s.api.CreateAdmin(ctx, req); err != nil {
		return apperrors.FromAPI(err)
	}
	s.log().InfoContext(ctx, "admin created", "username", req.Username, "role", req.Role)
	return nil
}

func isSelf(actor domainauth.Principal, id string) bool {
	return actor.ID != "" && actor.ID == id
}
