package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/target/recruit-admin/internal/errors"
)

// mockRenderer captures the data passed to it for testing.
type mockRenderer struct {
	called bool
	data   map[string]any
}

func (m *mockRenderer) render(_ http.ResponseWriter, _ *http.Request, data any) {
	m.called = true
	if typed, ok := data.(map[string]any); ok {
		m.data = typed
	}
}

func TestRenderError_FieldErrors(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/admins", nil)
	mock := &mockRenderer{}

	RenderError(ErrorOpts{
		W:           w,
		R:           r,
		FieldErrors: map[string]string{"confirmPassword": "Passwords do not match"},
		Renderer:    mock.render,
		PageMeta:    PageMeta{Title: "Admins", PageTitle: "Create Admin", CurrentPage: PageAdmins},
		Data:        map[string]any{"Username": "jdoe"},
	})

	require.True(t, mock.called)
	assert.Equal(t, true, mock.data["Error"])
	assert.Equal(t, errMsgFixBelow, mock.data["ErrorMessage"])
	assert.Equal(t, map[string]string{"confirmPassword": "Passwords do not match"}, mock.data["Errors"])
	assert.Equal(t, "jdoe", mock.data["Username"])
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRenderError_MergesFieldsFromError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/profile", nil)
	mock := &mockRenderer{}

	err := apperrors.ValidationFields("Validation failed", map[string]string{"email": "Email already in use"})
	RenderError(ErrorOpts{
		W:           w,
		R:           r,
		Err:         err,
		FieldErrors: map[string]string{"full_name": "Full name is required"},
		Renderer:    mock.render,
	})

	errs, ok := mock.data["Errors"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "Email already in use", errs["email"])
	assert.Equal(t, "Full name is required", errs["full_name"])
	assert.Equal(t, "Validation failed", mock.data["ErrorMessage"])
}

func TestRenderError_GeneralErrorWithToast(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/admins", nil)
	mock := &mockRenderer{}

	RenderError(ErrorOpts{
		W:          w,
		R:          r,
		Err:        apperrors.Conflict("Username or email already exists"),
		Renderer:   mock.render,
		StatusCode: http.StatusConflict,
		ShowToast:  true,
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Username or email already exists", mock.data["ErrorMessage"])
	assert.Contains(t, w.Header().Get("Hx-Trigger"), "showToast")
	assert.Contains(t, w.Header().Get("Hx-Trigger"), "Username or email already exists")
}

func TestRenderError_NoRenderer(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	RenderError(ErrorOpts{W: w, R: r, Err: errors.New("boom")})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "misconfigured error renderer")
}

func TestProcessError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", context.DeadlineExceeded, "Request timed out. Please try again."},
		{"wrapped deadline", fmt.Errorf("load: %w", context.DeadlineExceeded), "Request timed out. Please try again."},
		{"canceled", context.Canceled, "Request was canceled."},
		{"transport", apperrors.Wrap(errors.New("dial tcp"), apperrors.ErrCodeTransport, "unreachable"), "The backend is unavailable. Please try again."},
		{"internal", apperrors.Internal("db exploded"), "An error occurred. Please try again."},
		{"validation", apperrors.Validation("Please select users to delete"), "Please select users to delete"},
		{"forbidden", apperrors.Forbidden("Cannot change your own role"), "Cannot change your own role"},
		{"plain", errors.New("raw detail"), "An error occurred. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, processError(tt.err))
		})
	}
}

func TestDetermineErrorStatus(t *testing.T) {
	assert.Equal(t, 0, DetermineErrorStatus(nil))
	assert.Equal(t, http.StatusConflict, DetermineErrorStatus(apperrors.Conflict("taken")))
	assert.Equal(t, http.StatusNotFound, DetermineErrorStatus(apperrors.NotFound("missing")))
	assert.Equal(t, http.StatusForbidden, DetermineErrorStatus(apperrors.Forbidden("no")))
	assert.Equal(t, 0, DetermineErrorStatus(apperrors.Validation("bad")))
}
