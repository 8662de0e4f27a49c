package httpx

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/target/recruit-admin/internal/adapters/cookiestore"
	"github.com/target/recruit-admin/internal/adapters/devapi"
	"github.com/target/recruit-admin/internal/apiclient"
	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
	"github.com/target/recruit-admin/internal/observability/metrics"
	"github.com/target/recruit-admin/internal/ports"
)

const (
	testAdminUser = "superadmin"
	testAdminPass = "admin123"
)

// console is the full router wired to an in-memory backend, driven through a cookie-keeping browser.
type console struct {
	t       *testing.T
	api     *devapi.Server
	srv     *httptest.Server
	client  *http.Client
	metrics *metrics.Metrics
}

type consoleOptions struct {
	applicants int
	profiles   ports.ProfileCache
}

func newConsole(t *testing.T, opts consoleOptions) *console {
	t.Helper()

	api, err := devapi.New(devapi.Options{
		JWTSecret:      "httpx-test",
		SeedUsername:   testAdminUser,
		SeedPassword:   testAdminPass,
		SeedApplicants: opts.applicants,
		BcryptCost:     bcrypt.MinCost,
	})
	require.NoError(t, err)
	backendSrv := httptest.NewServer(api.Handler())
	t.Cleanup(backendSrv.Close)

	m := metrics.New()
	client, err := apiclient.New(apiclient.Options{BaseURL: backendSrv.URL, Timeout: 5 * time.Second, Metrics: m})
	require.NoError(t, err)

	profileTTL := time.Duration(0)
	if opts.profiles != nil {
		profileTTL = time.Minute
	}
	sessions := NewSessionFactory(SessionFactoryOptions{
		Client:     client,
		Cookies:    cookiestore.Options{},
		Profiles:   opts.profiles,
		ProfileTTL: profileTTL,
		Metrics:    m,
		LoginPath:  "/login",
	})

	handler := NewRouter(RouterServices{
		Sessions:    sessions,
		TemplateFS:  os.DirFS(TemplatePathFromTest),
		Metrics:     m,
		MetricsPath: "/metrics",
		LoginPath:   "/login",
		HomePath:    "/dashboard",
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	browser := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &console{t: t, api: api, srv: srv, client: browser, metrics: m}
}

type page struct {
	status int
	header http.Header
	body   string
}

func (c *console) do(req *http.Request) page {
	c.t.Helper()
	res, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	return page{status: res.StatusCode, header: res.Header, body: string(b)}
}

func (c *console) get(path string, headers ...string) page {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.srv.URL+path, nil)
	require.NoError(c.t, err)
	req.Header.Set("Accept", "text/html")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return c.do(req)
}

// post submits a form with the CSRF token taken from the cookie jar.
func (c *console) post(path string, form url.Values, headers ...string) page {
	c.t.Helper()
	if c.cookie(DefaultCSRFCookieName) == "" {
		c.get("/login")
	}
	if form == nil {
		form = url.Values{}
	}
	form.Set(DefaultCSRFCookieName, c.cookie(DefaultCSRFCookieName))
	req, err := http.NewRequest(http.MethodPost, c.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return c.do(req)
}

// follow loads the page a redirect points at.
func (c *console) follow(p page) page {
	c.t.Helper()
	loc := p.header.Get("Location")
	if loc == "" {
		loc = p.header.Get("Hx-Redirect")
	}
	require.NotEmpty(c.t, loc, "expected a redirect, got status %d", p.status)
	return c.get(loc)
}

func (c *console) cookie(name string) string {
	u, err := url.Parse(c.srv.URL)
	require.NoError(c.t, err)
	for _, ck := range c.client.Jar.Cookies(u) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func (c *console) login(username, password string) page {
	c.t.Helper()
	return c.post("/login", url.Values{"username": {username}, "password": {password}})
}

func (c *console) loginAsSuperAdmin() {
	c.t.Helper()
	p := c.login(testAdminUser, testAdminPass)
	require.Equal(c.t, http.StatusSeeOther, p.status, p.body)
}

// addAdmin creates a regular admin directly in the backend store.
func (c *console) addAdmin(username, password string) domainauth.Principal {
	c.t.Helper()
	p, err := c.api.Store().AddAdmin(model.CreateAdminRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
		Role:     domainauth.RoleAdmin,
	})
	require.NoError(c.t, err)
	return p
}

func (c *console) superAdmin() domainauth.Principal {
	c.t.Helper()
	for _, a := range c.api.Store().Admins() {
		if a.Username == testAdminUser {
			return a
		}
	}
	c.t.Fatal("seed admin missing")
	return domainauth.Principal{}
}
