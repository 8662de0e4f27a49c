package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/recruit-admin/internal/domain/auth"
)

func TestApplicationStatus_UnmarshalText(t *testing.T) {
	var s ApplicationStatus
	assert.NoError(t, s.UnmarshalText([]byte(" Under_Review ")))
	assert.Equal(t, ApplicationStatusUnderReview, s)
	assert.Error(t, s.UnmarshalText([]byte("hired")))
	assert.Equal(t, "UNDER REVIEW", ApplicationStatusUnderReview.Label())
}

func TestApplicationListOptions_Query(t *testing.T) {
	q := ApplicationListOptions{Status: "all", Search: "  "}.Query()
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.False(t, q.Has("status"))
	assert.False(t, q.Has("search"))

	q = ApplicationListOptions{Page: 3, Limit: 500, Status: "approved", Search: "ana"}.Query()
	assert.Equal(t, "3", q.Get("page"))
	assert.Equal(t, "100", q.Get("limit"))
	assert.Equal(t, "approved", q.Get("status"))
	assert.Equal(t, "ana", q.Get("search"))
}

func TestPagination_UnmarshalJSON(t *testing.T) {
	var p Pagination
	require.NoError(t, json.Unmarshal([]byte(`{"currentPage":2,"totalPages":3,"totalUsers":25}`), &p))
	assert.Equal(t, Pagination{CurrentPage: 2, TotalPages: 3, Total: 25, HasNextPage: true, HasPrevPage: true}, p)

	var list ApplicationList
	require.NoError(t, json.Unmarshal(
		[]byte(`{"applications":[{"id":"a1","status":"approved","full_name":"Ana"}],`+
			`"pagination":{"currentPage":1,"totalPages":1,"totalApplications":1}}`), &list))
	require.Len(t, list.Applications, 1)
	assert.Equal(t, ApplicationStatusApproved, list.Applications[0].Status)
	assert.Equal(t, 1, list.Pagination.Total)
	assert.False(t, list.Pagination.HasNextPage)
}

func TestUserListOptions_Query(t *testing.T) {
	q := UserListOptions{Verified: "all"}.Query()
	assert.False(t, q.Has("verified"))
	assert.Equal(t, "created_at", q.Get("sortBy"))
	assert.Equal(t, "desc", q.Get("sortOrder"))

	q = UserListOptions{Verified: "false", SortBy: "email", SortOrder: "ASC"}.Query()
	assert.Equal(t, "false", q.Get("verified"))
	assert.Equal(t, "email", q.Get("sortBy"))
	assert.Equal(t, "asc", q.Get("sortOrder"))
}

func TestCreateAdminRequest_Validate(t *testing.T) {
	errs := CreateAdminRequest{}.Validate()
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "confirmPassword")
	assert.Contains(t, errs, "role")

	errs = CreateAdminRequest{
		Username:        "ops",
		Email:           "ops@example.com",
		Password:        "short",
		ConfirmPassword: "other",
		Role:            domainauth.RoleAdmin,
	}.Validate()
	assert.Equal(t, "Password must be at least 8 characters", errs["password"])
	assert.Equal(t, "Passwords do not match", errs["confirmPassword"])

	errs = CreateAdminRequest{
		Username:        "ops",
		Email:           "ops@example.com",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		Role:            domainauth.RoleSuperAdmin,
	}.Validate()
	assert.Empty(t, errs)
}

func TestUpdateProfileRequest_Validate(t *testing.T) {
	assert.Equal(t, "Full name must be at least 2 characters",
		UpdateProfileRequest{FullName: "a", Email: "a@b.c"}.Validate()["full_name"])
	assert.Empty(t, UpdateProfileRequest{FullName: "Ana", Email: "a@b.c"}.Validate())
}

func TestChangePasswordRequest_Validate(t *testing.T) {
	errs := ChangePasswordRequest{NewPassword: "12345678", ConfirmPassword: "12345678"}.Validate()
	assert.Equal(t, map[string]string{"currentPassword": "Current password is required"}, errs)
}

func TestDocument_Content(t *testing.T) {
	const png = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

	ct, data, err := Document{FileName: "photo.png", Base64Data: "data:image/png;base64," + png}.Content()
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Len(t, data, 68)
	assert.Equal(t, []byte("\x89PNG"), data[:4])

	ct, data, err = Document{FileType: "application/pdf", Base64Data: "data:application/octet-stream;base64,JVBERi0="}.Content()
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ct, "declared file type wins")
	assert.Equal(t, []byte("%PDF-"), data)

	ct, data, err = Document{Base64Data: "aGVsbG8"}.Content()
	require.NoError(t, err)
	assert.Empty(t, ct)
	assert.Equal(t, []byte("hello"), data)

	_, _, err = Document{URL: "/uploads/cv.pdf"}.Content()
	assert.ErrorIs(t, err, ErrDocumentUnavailable)

	_, _, err = Document{Base64Data: "data:text/plain,hello"}.Content()
	assert.Error(t, err)
	_, _, err = Document{Base64Data: "data:image/png;base64"}.Content()
	assert.Error(t, err)
	_, _, err = Document{Base64Data: "!!not base64!!"}.Content()
	assert.Error(t, err)
}

func TestDocument_Presentation(t *testing.T) {
	tests := []struct {
		doc      Document
		kind     string
		viewable bool
	}{
		{Document{FileType: "image/jpeg"}, "image", true},
		{Document{FileType: "application/pdf"}, "pdf", true},
		{Document{FileType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}, "document", false},
		{Document{FileType: "application/vnd.ms-excel"}, "spreadsheet", false},
		{Document{}, "file", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, tt.doc.Kind(), tt.doc.FileType)
		assert.Equal(t, tt.viewable, tt.doc.Viewable(), tt.doc.FileType)
	}

	assert.Equal(t, "1.5 KB", Document{FileSize: 1536}.SizeLabel())
	assert.Empty(t, Document{}.SizeLabel())
	assert.False(t, Document{}.Available())
	assert.True(t, Document{URL: "/x"}.Available())
	assert.False(t, Document{URL: "/x"}.HasData())
}

func TestDocument_DecodesBackendKeys(t *testing.T) {
	var app Application
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "a1",
		"status": "submitted",
		"full_name": "Amina Okafor",
		"documents": {"cv": {"fileName": "cv.pdf", "fileType": "application/pdf", "fileSize": 2048, "base64Data": "data:application/pdf;base64,JVBERi0="}}
	}`), &app))

	doc := app.Documents["cv"]
	assert.Equal(t, "cv.pdf", doc.FileName)
	assert.Equal(t, "application/pdf", doc.FileType)
	assert.Equal(t, int64(2048), doc.FileSize)
	assert.True(t, doc.HasData())
}
