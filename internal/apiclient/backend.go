package apiclient

import (
	"context"
	"errors"
	"net/url"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
	"github.com/target/recruit-admin/internal/ports"
)

// Backend paths.
const (
	PathLogin          = "/api/admin/login"
	PathMe             = "/api/admin/me"
	PathApplications   = "/api/admin/dashboard/applications"
	PathApplication    = "/api/admin/dashboard/application"
	PathUsers          = "/api/admin/users"
	PathUsersBulk      = "/api/admin/users/bulk-delete"
	PathAdmins         = "/api/admin/admins"
	PathCreateAdmin    = "/api/admin/create-admin"
	PathUpdateProfile  = "/api/admin/update-profile"
	PathChangePassword = "/api/admin/change-password"
)

// ErrMalformedLogin is returned when a 2xx login answer lacks a token or admin.
var ErrMalformedLogin = errors.New("login response missing token or admin")

// ErrMalformedProfile is returned when /me answers 2xx without a usable principal.
var ErrMalformedProfile = errors.New("profile response missing username or role")

// Backend is the typed admin REST surface over a Client.
type Backend struct {
	c *Client
}

// NewBackend wraps c.
func NewBackend(c *Client) *Backend { return &Backend{c: c} }

// Client returns the underlying client.
func (b *Backend) Client() *Client { return b.c }

// OnAuthRejected subscribes to 401 responses from any call made through this backend.
func (b *Backend) OnAuthRejected(fn func(ports.AuthRejected)) func() {
	return b.c.OnAuthRejected(fn)
}

// Login exchanges credentials for a token. A 401 here is a failed login, not a forced logout.
func (b *Backend) Login(ctx context.Context, creds ports.Credentials) (ports.LoginResponse, error) {
	var out ports.LoginResponse
	if err := b.c.Post(CredentialExchange(ctx), PathLogin, creds, &out); err != nil {
		return ports.LoginResponse{}, err
	}
	if out.Token == "" || out.Admin == nil || out.Admin.Username == "" {
		return ports.LoginResponse{}, &DecodeError{Method: "POST", Path: PathLogin, Err: ErrMalformedLogin}
	}
	return out, nil
}

// Me fetches the principal bound to the current token.
func (b *Backend) Me(ctx context.Context) (domainauth.Principal, error) {
	var p domainauth.Principal
	if err := b.c.Get(ctx, PathMe, nil, &p); err != nil {
		return domainauth.Principal{}, err
	}
	if p.Username == "" || !p.Role.Valid() {
		return domainauth.Principal{}, &DecodeError{Method: "GET", Path: PathMe, Err: ErrMalformedProfile}
	}
	return p, nil
}

func (b *Backend) ListApplications(ctx context.Context, opts model.ApplicationListOptions) (model.ApplicationList, error) {
	var out model.ApplicationList
	if err := b.c.Get(ctx, PathApplications, opts.Query(), &out); err != nil {
		return model.ApplicationList{}, err
	}
	return out, nil
}

func (b *Backend) GetApplication(ctx context.Context, id string) (model.Application, error) {
	var out model.Application
	if err := b.c.Get(ctx, PathApplication+"/"+url.PathEscape(id), nil, &out); err != nil {
		return model.Application{}, err
	}
	return out, nil
}

func (b *Backend) UpdateApplicationStatus(ctx context.Context, id string, req model.UpdateApplicationStatusRequest) error {
	return b.c.Put(ctx, PathApplication+"/"+url.PathEscape(id)+"/status", req, nil)
}

func (b *Backend) DeleteApplication(ctx context.Context, id string) error {
	return b.c.Delete(ctx, PathApplication+"/"+url.PathEscape(id), nil, nil)
}

func (b *Backend) ListUsers(ctx context.Context, opts model.UserListOptions) (model.UserList, error) {
	var out model.UserList
	if err := b.c.Get(ctx, PathUsers, opts.Query(), &out); err != nil {
		return model.UserList{}, err
	}
	return out, nil
}

func (b *Backend) DeleteUser(ctx context.Context, id string) error {
	return b.c.Delete(ctx, PathUsers+"/"+url.PathEscape(id), nil, nil)
}

func (b *Backend) BulkDeleteUsers(ctx context.Context, ids []string) (model.BulkDeleteResult, error) {
	var out model.BulkDeleteResult
	body := struct {
		UserIDs []string `json:"userIds"`
	}{UserIDs: ids}
	if err := b.c.Delete(ctx, PathUsersBulk, body, &out); err != nil {
		return model.BulkDeleteResult{}, err
	}
	return out, nil
}

func (b *Backend) SetUserVerified(ctx context.Context, id string, verified bool) error {
	body := struct {
		Verified bool `json:"verified"`
	}{Verified: verified}
	return b.c.Put(ctx, PathUsers+"/"+url.PathEscape(id)+"/verify", body, nil)
}

func (b *Backend) ListAdmins(ctx context.Context) ([]domainauth.Principal, error) {
	var out []domainauth.Principal
	if err := b.c.Get(ctx, PathAdmins, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Backend) SetAdminRole(ctx context.Context, id string, role domainauth.Role) error {
	body := struct {
		Role domainauth.Role `json:"role"`
	}{Role: role}
	return b.c.Put(ctx, PathAdmins+"/"+url.PathEscape(id)+"/role", body, nil)
}

func (b *Backend) SetAdminActive(ctx context.Context, id string, active bool) error {
	action := "deactivate"
	if active {
		action = "activate"
	}
	return b.c.Put(ctx, PathAdmins+"/"+url.PathEscape(id)+"/"+action, nil, nil)
}

func (b *Backend) CreateAdmin(ctx context.Context, req model.CreateAdminRequest) error {
	return b.c.Post(ctx, PathCreateAdmin, req, nil)
}

func (b *Backend) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) error {
	return b.c.Put(ctx, PathUpdateProfile, req, nil)
}

func (b *Backend) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error {
	return b.c.Put(ctx, PathChangePassword, req, nil)
}
