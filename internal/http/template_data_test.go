package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/recruit-admin/internal/domain/model"
	"github.com/target/recruit-admin/internal/http/ui/viewmodel"
)

func TestNewTemplateData(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	meta := PageMeta{Title: "Dashboard", PageTitle: "Dashboard", CurrentPage: PageDashboard}

	data := NewTemplateData(r, meta).Build()

	assert.Equal(t, "Dashboard", data["Title"])
	assert.Equal(t, "Dashboard", data["PageTitle"])
	assert.Equal(t, PageDashboard, data["CurrentPage"])
	assert.Equal(t, false, data["IsAuthenticated"])
	assert.Equal(t, false, data["CanManageAdmins"])
	assert.NotContains(t, data, "User")
	assert.NotContains(t, data, "Toast")
}

func TestNewTemplateData_FlashToast(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	setFlash(rec, r, "Login successful!", ToastSuccess)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	r.AddCookie(cookies[0])
	var data map[string]any
	Flash()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		data = NewTemplateData(r, PageMeta{}).Build()
	})).ServeHTTP(httptest.NewRecorder(), r)

	toast, ok := data["Toast"].(*viewmodel.Toast)
	require.True(t, ok)
	assert.Equal(t, "Login successful!", toast.Message)
	assert.Equal(t, ToastSuccess, toast.Type)
}

func TestTemplateDataBuilder_WithPagination(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/users?search=ali&verified=true&page=2&limit=10", nil)

	data := NewTemplateData(r, PageMeta{CurrentPage: PageUsers}).
		WithPagination("/users", model.Pagination{CurrentPage: 2, TotalPages: 3, Total: 25}, 10, 10).
		Build()

	p, ok := data["Pagination"].(viewmodel.Pagination)
	require.True(t, ok)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 11, p.StartIndex)
	assert.Equal(t, 20, p.EndIndex)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)

	prev, err := url.Parse(p.PrevURL)
	require.NoError(t, err)
	assert.Equal(t, "/users", prev.Path)
	assert.Equal(t, "1", prev.Query().Get("page"))
	assert.Equal(t, "ali", prev.Query().Get("search"))
	assert.Equal(t, "true", prev.Query().Get("verified"))

	next, err := url.Parse(p.NextURL)
	require.NoError(t, err)
	assert.Equal(t, "3", next.Query().Get("page"))
}

func TestTemplateDataBuilder_WithPagination_SinglePage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/applications", nil)

	data := NewTemplateData(r, PageMeta{}).
		WithPagination("/applications", model.Pagination{CurrentPage: 1, TotalPages: 1, Total: 4}, 10, 4).
		Build()

	p := data["Pagination"].(viewmodel.Pagination)
	assert.False(t, p.HasPrev)
	assert.False(t, p.HasNext)
	assert.Empty(t, p.PrevURL)
	assert.Empty(t, p.NextURL)
	assert.Equal(t, 1, p.StartIndex)
	assert.Equal(t, 4, p.EndIndex)
}

func TestTemplateDataBuilder_Chaining(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admins", nil)

	data := NewTemplateData(r, PageMeta{}).
		WithError("Please fix the errors below.").
		WithFieldErrors(map[string]string{"email": "Please provide a valid email"}).
		WithFieldErrors(nil).
		With("Username", "jdoe").
		Build()

	assert.Equal(t, true, data["Error"])
	assert.Equal(t, "Please fix the errors below.", data["ErrorMessage"])
	assert.Equal(t, map[string]string{"email": "Please provide a valid email"}, data["Errors"])
	assert.Equal(t, "jdoe", data["Username"])
}

func TestBuildPageURL_DropsBlankAndHTMXParams(t *testing.T) {
	q := url.Values{"search": {" "}, "status": {"approved"}, "hx-request": {"true"}}
	assert.Equal(t, "/applications?limit=20&page=4&status=approved", buildPageURL("/applications", q, 4, 20))
}

func TestPageParams(t *testing.T) {
	page, limit := pageParams(url.Values{"page": {"3"}, "limit": {"25"}})
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, limit)

	page, limit = pageParams(url.Values{"page": {"x"}})
	wantPage, wantLimit := model.NormalizePage(0, 0)
	assert.Equal(t, wantPage, page)
	assert.Equal(t, wantLimit, limit)
}
