package ports

import (
	"context"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
)

// ApplicationsAPI reads and moderates job applications.
type ApplicationsAPI interface {
	ListApplications(ctx context.Context, opts model.ApplicationListOptions) (model.ApplicationList, error)
	GetApplication(ctx context.Context, id string) (model.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, req model.UpdateApplicationStatusRequest) error
	DeleteApplication(ctx context.Context, id string) error
}

// UsersAPI manages applicant accounts.
type UsersAPI interface {
	ListUsers(ctx context.Context, opts model.UserListOptions) (model.UserList, error)
	DeleteUser(ctx context.Context, id string) error
	BulkDeleteUsers(ctx context.Context, ids []string) (model.BulkDeleteResult, error)
	SetUserVerified(ctx context.Context, id string, verified bool) error
}

// AdminsAPI manages admin accounts and the signed-in admin's own profile.
type AdminsAPI interface {
	ListAdmins(ctx context.Context) ([]domainauth.Principal, error)
	SetAdminRole(ctx context.Context, id string, role domainauth.Role) error
	SetAdminActive(ctx context.Context, id string, active bool) error
	CreateAdmin(ctx context.Context, req model.CreateAdminRequest) error
	UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) error
	ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error
}

// Backend is the full admin REST surface.
type Backend interface {
	AdminAPI
	ApplicationsAPI
	UsersAPI
	AdminsAPI
}
