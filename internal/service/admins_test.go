package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/recruit-admin/internal/apiclient"
	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
	apperrors "github.com/target/recruit-admin/internal/errors"
	"github.com/target/recruit-admin/internal/testutil"
)

func TestAdminService_RefusesActingOnSelf(t *testing.T) {
	t.Parallel()
	fb := newFakeBackend()
	svc := NewAdminService(AdminServiceOptions{API: fb})
	actor := testutil.SuperAdmin()
	ctx := context.Background()

	err := svc.SetActive(ctx, actor, actor.ID, false)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Equal(t, ErrMsgOwnStatus, apperrors.Message(err, ""))

	err = svc.SetRole(ctx, actor, actor.ID, domainauth.RoleAdmin)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Equal(t, ErrMsgOwnRole, apperrors.Message(err, ""))

	assert.Empty(t, fb.Calls())
}

func TestAdminService_ChangesOthers(t *testing.T) {
	t.Parallel()
	fb := newFakeBackend()
	svc := NewAdminService(AdminServiceOptions{API: fb})
	actor := testutil.SuperAdmin()
	ctx := context.Background()

	require.NoError(t, svc.SetRole(ctx, actor, "admin-2", domainauth.RoleSuperAdmin))
	require.NoError(t, svc.SetActive(ctx, actor, "admin-2", false))
	assert.Equal(t, []string{"SetAdminRole admin-2", "SetAdminActive admin-2"}, fb.Calls())
	assert.Equal(t, domainauth.RoleSuperAdmin, fb.lastRole)
	require.NotNil(t, fb.lastActive)
	assert.False(t, *fb.lastActive)

	err := svc.SetRole(ctx, actor, "admin-2", domainauth.Role("owner"))
	assert.True(t, apperrors.IsValidation(err))
}

func TestAdminService_Create(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		req        model.CreateAdminRequest
		wantFields []string
	}{
		{
			name:       "empty form",
			req:        model.CreateAdminRequest{},
			wantFields: []string{"username", "email", "password", "confirmPassword"},
		},
		{
			name: "short password",
			req: model.CreateAdminRequest{
				Username: "ops", Email: "ops@example.com", Password: "short", ConfirmPassword: "short",
			},
			wantFields: []string{"password"},
		},
		{
			name: "mismatched confirmation",
			req: model.CreateAdminRequest{
				Username: "ops", Email: "ops@example.com", Password: "longenough", ConfirmPassword: "different",
			},
			wantFields: []string{"confirmPassword"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fb := newFakeBackend()
			svc := NewAdminService(AdminServiceOptions{API: fb})

			err := svc.Create(context.Background(), tt.req)
			require.True(t, apperrors.IsValidation(err))
			fields := apperrors.GetFields(err)
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
			assert.Len(t, fields, len(tt.wantFields))
			assert.Empty(t, fb.Calls())
		})
	}
}

func TestAdminService_CreateDefaultsRoleAndSurfacesBackendFields(t *testing.T) {
	t.Parallel()
	fb := newFakeBackend()
	svc := NewAdminService(AdminServiceOptions{API: fb})
	req := model.CreateAdminRequest{
		Username: " ops ", Email: "ops@example.com", Password: "longenough", ConfirmPassword: "longenough",
	}

	require.NoError(t, svc.Create(context.Background(), req))
	assert.Equal(t, "ops", fb.lastCreate.Username)
	assert.Equal(t, domainauth.RoleAdmin, fb.lastCreate.Role)

	fb.err = &apiclient.ResponseError{
		StatusCode:  http.StatusBadRequest,
		Message:     "Validation failed",
		FieldErrors: map[string]string{"username": "Username already exists"},
	}
	err := svc.Create(context.Background(), req)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "Username already exists", apperrors.GetFields(err)["username"])
}
