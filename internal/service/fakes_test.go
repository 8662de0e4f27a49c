package service

import (
	"context"
	"sync"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
)

// fakeBackend records calls to the application and admin endpoints.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string
	err   error

	apps       map[string]model.Application
	admins     []domainauth.Principal
	lastStatus model.UpdateApplicationStatusRequest
	lastCreate model.CreateAdminRequest
	lastRole   domainauth.Role
	lastActive *bool
	lastListed model.ApplicationListOptions
	lastProf   model.UpdateProfileRequest
	lastPass   model.ChangePasswordRequest
	totals     map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{apps: map[string]model.Application{}, totals: map[string]int{}}
}

func (f *fakeBackend) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) ListApplications(_ context.Context, opts model.ApplicationListOptions) (model.ApplicationList, error) {
	if err := f.record("ListApplications"); err != nil {
		return model.ApplicationList{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastListed = opts
	key := opts.Status
	if key == "" {
		key = model.FilterAll
	}
	var apps []model.Application
	for _, a := range f.apps {
		if key == model.FilterAll || string(a.Status) == key {
			apps = append(apps, a)
		}
	}
	total := f.totals[key]
	return model.ApplicationList{Applications: apps, Pagination: model.Pagination{CurrentPage: 1, TotalPages: 1, Total: total}}, nil
}

func (f *fakeBackend) GetApplication(_ context.Context, id string) (model.Application, error) {
	if err := f.record("GetApplication " + id); err != nil {
		return model.Application{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.apps[id], nil
}

func (f *fakeBackend) UpdateApplicationStatus(_ context.Context, id string, req model.UpdateApplicationStatusRequest) error {
	f.mu.Lock()
	f.lastStatus = req
	f.mu.Unlock()
	return f.record("UpdateApplicationStatus " + id)
}

func (f *fakeBackend) DeleteApplication(_ context.Context, id string) error {
	return f.record("DeleteApplication " + id)
}

func (f *fakeBackend) ListAdmins(context.Context) ([]domainauth.Principal, error) {
	if err := f.record("ListAdmins"); err != nil {
		return nil, err
	}
	return f.admins, nil
}

func (f *fakeBackend) SetAdminRole(_ context.Context, id string, role domainauth.Role) error {
	f.mu.Lock()
	f.lastRole = role
	f.mu.Unlock()
	return f.record("SetAdminRole " + id)
}

func (f *fakeBackend) SetAdminActive(_ context.Context, id string, active bool) error {
	f.mu.Lock()
	f.lastActive = &active
	f.mu.Unlock()
	return f.record("SetAdminActive " + id)
}

func (f *fakeBackend) CreateAdmin(_ context.Context, req model.CreateAdminRequest) error {
	f.mu.Lock()
	f.lastCreate = req
	f.mu.Unlock()
	return f.record("CreateAdmin")
}

func (f *fakeBackend) UpdateProfile(_ context.Context, req model.UpdateProfileRequest) error {
	f.mu.Lock()
	f.lastProf = req
	f.mu.Unlock()
	return f.record("UpdateProfile")
}

func (f *fakeBackend) ChangePassword(_ context.Context, req model.ChangePasswordRequest) error {
	f.mu.Lock()
	f.lastPass = req
	f.mu.Unlock()
	return f.record("ChangePassword")
}

type refresherFunc func(ctx context.Context) error

func (fn refresherFunc) RefreshProfile(ctx context.Context) error { return fn(ctx) }
