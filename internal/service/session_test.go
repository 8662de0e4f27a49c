package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/singleflight"

	"github.com/target/recruit-admin/internal/apiclient"
	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
	apperrors "github.com/target/recruit-admin/internal/errors"
	"github.com/target/recruit-admin/internal/mocks"
	authmocks "github.com/target/recruit-admin/internal/mocks/auth"
	"github.com/target/recruit-admin/internal/observability/metrics"
	"github.com/target/recruit-admin/internal/ports"
	"github.com/target/recruit-admin/internal/testutil"
)

type sessionFixture struct {
	tokens *authmocks.MemoryTokenStore
	api    *authmocks.StubAdminAPI
	nav    *authmocks.RecordingNavigator
	mgr    *SessionManager
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		tokens: authmocks.NewMemoryTokenStore(),
		api:    &authmocks.StubAdminAPI{},
		nav:    &authmocks.RecordingNavigator{},
	}
	f.mgr = NewSessionManager(SessionManagerOptions{Tokens: f.tokens, API: f.api, Navigator: f.nav})
	t.Cleanup(f.mgr.Close)
	return f
}

func (f *sessionFixture) adminToken() (string, bool) { return f.tokens.Get(domainauth.TokenAdmin) }

func loginOK(token string, p domainauth.Principal) func(context.Context, ports.Credentials) (ports.LoginResponse, error) {
	return func(context.Context, ports.Credentials) (ports.LoginResponse, error) {
		return ports.LoginResponse{Token: token, Admin: &p}, nil
	}
}

func assertSettledConsistent(t *testing.T, f *sessionFixture) {
	t.Helper()
	snap := f.mgr.Snapshot()
	assert.True(t, snap.Consistent(), "snapshot %+v violates the session invariant", snap)
	if snap.Settled() {
		tok, ok := f.adminToken()
		if snap.IsAuthenticated {
			assert.True(t, ok)
			assert.Equal(t, snap.Credential, tok)
		} else {
			assert.False(t, ok, "unauthenticated session must not leave a persisted admin token")
		}
	}
}

func TestSessionManager_StartsBootstrapping(t *testing.T) {
	f := newSessionFixture(t)
	snap := f.mgr.Snapshot()
	assert.Equal(t, domainauth.StatusBootstrapping, snap.Status)
	assert.False(t, snap.IsAuthenticated)
	assert.Equal(t, 1, f.api.Subscribers(), "manager subscribes to auth rejections")
}

func TestSessionManager_BootstrapWithoutTokenMakesNoRequest(t *testing.T) {
	f := newSessionFixture(t)

	snap := f.mgr.Bootstrap(context.Background())

	assert.Equal(t, domainauth.StatusUnauthenticated, snap.Status)
	assert.Equal(t, 0, f.api.MeCalls())
	assertSettledConsistent(t, f)
}

func TestSessionManager_BootstrapWithValidToken(t *testing.T) {
	f := newSessionFixture(t)
	f.tokens.Set("abc123", domainauth.TokenAdmin)
	f.api.MeFunc = func(context.Context) (domainauth.Principal, error) { return testutil.SuperAdmin(), nil }

	snap := f.mgr.Bootstrap(context.Background())

	assert.Equal(t, domainauth.StatusAuthenticated, snap.Status)
	assert.True(t, snap.IsSuperAdmin)
	assert.Equal(t, "abc123", snap.Credential)
	assertSettledConsistent(t, f)

	again := f.mgr.Bootstrap(context.Background())
	assert.Equal(t, snap, again)
	assert.Equal(t, 1, f.api.MeCalls(), "bootstrap runs once")
}

func TestSessionManager_BootstrapFailureClearsToken(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"transport", &apiclient.TransportError{Method: "GET", Path: apiclient.PathMe, Err: errors.New("refused")}},
		{"malformed", &apiclient.DecodeError{Method: "GET", Path: apiclient.PathMe, Err: apiclient.ErrMalformedProfile}},
		{"server error", &apiclient.ResponseError{StatusCode: http.StatusInternalServerError}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t)
			f.tokens.Set("abc123", domainauth.TokenAdmin)
			f.api.MeFunc = func(context.Context) (domainauth.Principal, error) { return domainauth.Principal{}, tt.err }

			snap := f.mgr.Bootstrap(context.Background())

			assert.Equal(t, domainauth.StatusUnauthenticated, snap.Status)
			assertSettledConsistent(t, f)
			assert.Empty(t, f.nav.Paths(), "only 401s trigger hard navigation")
		})
	}
}

func TestSessionManager_BootstrapUnauthorizedWithoutEventForcesLogout(t *testing.T) {
	f := newSessionFixture(t)
	f.tokens.Set("abc123", domainauth.TokenAdmin)
	f.api.MeFunc = func(context.Context) (domainauth.Principal, error) {
		return domainauth.Principal{}, &apiclient.ResponseError{StatusCode: http.StatusUnauthorized}
	}

	snap := f.mgr.Bootstrap(context.Background())

	assert.Equal(t, domainauth.StatusUnauthenticated, snap.Status)
	assertSettledConsistent(t, f)
	assert.Equal(t, []string{"/login"}, f.nav.Paths())
}

func TestSessionManager_ConcurrentBootstrapSharesOneFetch(t *testing.T) {
	f := newSessionFixture(t)
	f.tokens.Set("abc123", domainauth.TokenAdmin)
	release := make(chan struct{})
	f.api.MeFunc = func(context.Context) (domainauth.Principal, error) {
		<-release
		return testutil.SuperAdmin(), nil
	}

	var wg sync.WaitGroup
	results := make([]domainauth.Snapshot, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = f.mgr.Bootstrap(context.Background())
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, snap := range results {
		assert.Equal(t, domainauth.StatusAuthenticated, snap.Status)
	}
	assert.Equal(t, 1, f.api.MeCalls())
}

func TestSessionManager_SharedFetchSurvivesAbortedSibling(t *testing.T) {
	flight := &singleflight.Group{}
	started := make(chan struct{})
	release := make(chan struct{})

	tokensA, apiA := authmocks.NewMemoryTokenStore(), &authmocks.StubAdminAPI{}
	apiA.MeFunc = func(ctx context.Context) (domainauth.Principal, error) {
		close(started)
		select {
		case <-release:
			return testutil.SuperAdmin(), nil
		case <-ctx.Done():
			return domainauth.Principal{}, ctx.Err()
		}
	}
	tokensB, apiB := authmocks.NewMemoryTokenStore(), &authmocks.StubAdminAPI{}
	tokensA.Set("abc123", domainauth.TokenAdmin)
	tokensB.Set("abc123", domainauth.TokenAdmin)

	mgrA := NewSessionManager(SessionManagerOptions{Tokens: tokensA, API: apiA, Navigator: &authmocks.RecordingNavigator{}, Flight: flight})
	navB := &authmocks.RecordingNavigator{}
	mgrB := NewSessionManager(SessionManagerOptions{Tokens: tokensB, API: apiB, Navigator: navB, Flight: flight})
	t.Cleanup(mgrA.Close)
	t.Cleanup(mgrB.Close)

	ctxA, cancelA := context.WithCancel(context.Background())
	doneA := make(chan domainauth.Snapshot)
	go func() { doneA <- mgrA.Bootstrap(ctxA) }()
	<-started

	doneB := make(chan domainauth.Snapshot)
	go func() { doneB <- mgrB.Bootstrap(context.Background()) }()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	snapA := <-doneA
	assert.Equal(t, domainauth.StatusUnauthenticated, snapA.Status)
	_, keptA := tokensA.Get(domainauth.TokenAdmin)
	assert.True(t, keptA, "an aborted request must not drop its credential")

	close(release)
	snapB := <-doneB
	assert.Equal(t, domainauth.StatusAuthenticated, snapB.Status)
	tok, ok := tokensB.Get(domainauth.TokenAdmin)
	assert.True(t, ok)
	assert.Equal(t, "abc123", tok)
	assert.Equal(t, 0, apiB.MeCalls())
	assert.Equal(t, 1, apiA.MeCalls())
	assert.Empty(t, navB.Paths())
}

func TestSessionManager_SharedFetchIsBoundedByFetchTimeout(t *testing.T) {
	tokens, api := authmocks.NewMemoryTokenStore(), &authmocks.StubAdminAPI{}
	tokens.Set("abc123", domainauth.TokenAdmin)
	api.MeFunc = func(ctx context.Context) (domainauth.Principal, error) {
		<-ctx.Done()
		return domainauth.Principal{}, &apiclient.TransportError{Err: ctx.Err()}
	}
	mgr := NewSessionManager(SessionManagerOptions{Tokens: tokens, API: api, FetchTimeout: 10 * time.Millisecond})
	t.Cleanup(mgr.Close)

	snap := mgr.Bootstrap(context.Background())

	assert.Equal(t, domainauth.StatusUnauthenticated, snap.Status)
	_, ok := tokens.Get(domainauth.TokenAdmin)
	assert.False(t, ok)
}

func TestSessionManager_LoginDuringBootstrapDiscardsStaleResult(t *testing.T) {
	f := newSessionFixture(t)
	f.tokens.Set("old-token", domainauth.TokenAdmin)
	started := make(chan struct{})
	release := make(chan struct{})
	f.api.MeFunc = func(context.Context) (domainauth.Principal, error) {
		close(started)
		<-release
		return domainauth.Principal{}, &apiclient.TransportError{Err: errors.New("slow then dead")}
	}
	f.api.LoginFunc = loginOK("new-token", testutil.SuperAdmin())

	done := make(chan domainauth.Snapshot)
	go func() { done <- f.mgr.Bootstrap(context.Background()) }()
	<-started

	res := f.mgr.Login(context.Background(), "superadmin", "admin123")
	require.True(t, res.Success)
	close(release)
	snap := <-done

	assert.Equal(t, domainauth.StatusAuthenticated, snap.Status, "late bootstrap failure must not undo the login")
	tok, ok := f.adminToken()
	assert.True(t, ok)
	assert.Equal(t, "new-token", tok)
	assertSettledConsistent(t, f)
}

func TestSessionManager_LoginSuccess(t *testing.T) {
	f := newSessionFixture(t)
	f.mgr.Bootstrap(context.Background())
	f.api.LoginFunc = func(_ context.Context, creds ports.Credentials) (ports.LoginResponse, error) {
		assert.Equal(t, "superadmin", creds.Username)
		assert.Equal(t, "admin123", creds.Password)
		admin := domainauth.Principal{Username: "superadmin", Role: domainauth.RoleSuperAdmin}
		return ports.LoginResponse{Token: "abc123", Admin: &admin}, nil
	}

	var seen []domainauth.Snapshot
	f.mgr.Subscribe(func(s domainauth.Snapshot) { seen = append(seen, s) })

	res := f.mgr.Login(context.Background(), "superadmin", "admin123")

	assert.Equal(t, LoginResult{Success: true}, res)
	snap := f.mgr.Snapshot()
	assert.Equal(t, domainauth.StatusAuthenticated, snap.Status)
	assert.True(t, snap.IsSuperAdmin)
	tok, ok := f.adminToken()
	require.True(t, ok)
	assert.Equal(t, "abc123", tok)
	require.Len(t, seen, 1)
	assert.Equal(t, snap, seen[0])
	assertSettledConsistent(t, f)
}

func TestSessionManager_LoginFailure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantMsg    string
		wantFields map[string]string
	}{
		{
			name:    "server message",
			err:     &apiclient.ResponseError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"},
			wantMsg: "Invalid credentials",
		},
		{
			name:    "no message",
			err:     &apiclient.ResponseError{StatusCode: http.StatusInternalServerError},
			wantMsg: DefaultLoginFailedMessage,
		},
		{
			name:    "network",
			err:     &apiclient.TransportError{Err: errors.New("refused")},
			wantMsg: DefaultLoginFailedMessage,
		},
		{
			name: "validation",
			err: &apiclient.ResponseError{
				StatusCode:  http.StatusBadRequest,
				Message:     "Validation failed",
				FieldErrors: map[string]string{"username": "Username is required"},
			},
			wantMsg:    "Validation failed",
			wantFields: map[string]string{"username": "Username is required"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t)
			f.mgr.Bootstrap(context.Background())
			f.api.LoginFunc = func(context.Context, ports.Credentials) (ports.LoginResponse, error) {
				return ports.LoginResponse{}, tt.err
			}

			res := f.mgr.Login(context.Background(), "bad", "bad")

			assert.False(t, res.Success)
			assert.Equal(t, tt.wantMsg, res.Message)
			assert.Equal(t, tt.wantFields, res.FieldErrors)
			assert.Equal(t, domainauth.StatusUnauthenticated, f.mgr.Snapshot().Status)
			assertSettledConsistent(t, f)
		})
	}
}

func TestSessionManager_LoginMissingTokenIsFailure(t *testing.T) {
	f := newSessionFixture(t)
	f.mgr.Bootstrap(context.Background())
	f.api.LoginFunc = func(context.Context, ports.Credentials) (ports.LoginResponse, error) {
		return ports.LoginResponse{Token: "abc123"}, nil
	}

	res := f.mgr.Login(context.Background(), "superadmin", "admin123")

	assert.False(t, res.Success)
	assert.Equal(t, DefaultLoginFailedMessage, res.Message)
	assertSettledConsistent(t, f)
}

func TestSessionManager_LogoutIsIdempotent(t *testing.T) {
	f := newSessionFixture(t)
	f.api.LoginFunc = loginOK("abc123", testutil.SuperAdmin())
	f.mgr.Bootstrap(context.Background())
	require.True(t, f.mgr.Login(context.Background(), "superadmin", "admin123").Success)

	notified := 0
	f.mgr.Subscribe(func(domainauth.Snapshot) { notified++ })

	f.mgr.Logout()
	once := f.mgr.Snapshot()
	f.mgr.Logout()
	twice := f.mgr.Snapshot()

	assert.Equal(t, once, twice)
	assert.Equal(t, domainauth.StatusUnauthenticated, twice.Status)
	assert.Equal(t, 1, notified)
	assert.Empty(t, f.nav.Paths(), "logout is local and does not navigate")
	assertSettledConsistent(t, f)
}

func TestSessionManager_ForcedLogoutOnAuthRejected(t *testing.T) {
	f := newSessionFixture(t)
	f.api.LoginFunc = loginOK("abc123", testutil.SuperAdmin())
	f.mgr.Bootstrap(context.Background())
	require.True(t, f.mgr.Login(context.Background(), "superadmin", "admin123").Success)

	f.api.Reject("/api/admin/users")

	snap := f.mgr.Snapshot()
	assert.Equal(t, domainauth.StatusUnauthenticated, snap.Status)
	assert.Nil(t, snap.Principal)
	assert.Equal(t, []string{"/login"}, f.nav.Paths())
	assertSettledConsistent(t, f)
}

func TestSessionManager_CloseStopsListening(t *testing.T) {
	f := newSessionFixture(t)
	f.mgr.Close()
	f.mgr.Close()
	assert.Equal(t, 0, f.api.Subscribers())
}

func TestSessionManager_RefreshProfile(t *testing.T) {
	f := newSessionFixture(t)
	f.api.LoginFunc = loginOK("abc123", testutil.SuperAdmin())

	err := f.mgr.RefreshProfile(context.Background())
	assert.True(t, apperrors.IsUnauthorized(err))

	f.mgr.Bootstrap(context.Background())
	require.True(t, f.mgr.Login(context.Background(), "superadmin", "admin123").Success)

	updated := testutil.SuperAdmin()
	updated.FullName = "Renamed Admin"
	f.api.MeFunc = func(context.Context) (domainauth.Principal, error) { return updated, nil }

	require.NoError(t, f.mgr.RefreshProfile(context.Background()))
	snap := f.mgr.Snapshot()
	assert.Equal(t, "Renamed Admin", snap.Principal.DisplayName())
	assert.Equal(t, "abc123", snap.Credential)

	f.api.MeFunc = func(context.Context) (domainauth.Principal, error) {
		return domainauth.Principal{}, &apiclient.ResponseError{StatusCode: http.StatusBadGateway}
	}
	err = f.mgr.RefreshProfile(context.Background())
	assert.True(t, apperrors.IsInternal(err))
	assert.Equal(t, domainauth.StatusAuthenticated, f.mgr.Snapshot().Status)
}

func TestSessionManager_ProfileCache(t *testing.T) {
	tokens := authmocks.NewMemoryTokenStore()
	cache := authmocks.NewMemoryProfileCache()
	api := &authmocks.StubAdminAPI{
		MeFunc: func(context.Context) (domainauth.Principal, error) { return testutil.SuperAdmin(), nil },
	}
	m := metrics.New()
	newMgr := func() *SessionManager {
		return NewSessionManager(SessionManagerOptions{
			Tokens: tokens, API: api, Profiles: cache, ProfileTTL: time.Minute, Metrics: m,
		})
	}
	tokens.Set("abc123", domainauth.TokenAdmin)

	assert.Equal(t, domainauth.StatusAuthenticated, newMgr().Bootstrap(context.Background()).Status)
	assert.Equal(t, domainauth.StatusAuthenticated, newMgr().Bootstrap(context.Background()).Status)
	assert.Equal(t, 1, api.MeCalls(), "second request is served from the profile cache")

	mgr := newMgr()
	mgr.Bootstrap(context.Background())
	mgr.Logout()
	assert.Zero(t, cache.Len(), "logout evicts the cached profile")
}

func TestSessionManager_ProfileCacheErrorFallsBackToAPI(t *testing.T) {
	tokens := authmocks.NewMemoryTokenStore()
	tokens.Set("abc123", domainauth.TokenAdmin)
	cache := authmocks.NewMemoryProfileCache()
	cache.Err = errors.New("redis down")
	api := &authmocks.StubAdminAPI{
		MeFunc: func(context.Context) (domainauth.Principal, error) { return testutil.SuperAdmin(), nil },
	}

	mgr := NewSessionManager(SessionManagerOptions{Tokens: tokens, API: api, Profiles: cache, ProfileTTL: time.Minute})
	assert.Equal(t, domainauth.StatusAuthenticated, mgr.Bootstrap(context.Background()).Status)
	assert.Equal(t, 1, api.MeCalls())
}

func TestSessionManager_WithGomockAPI(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAdminAPI(ctrl)
	tokens := authmocks.NewMemoryTokenStore()
	tokens.Set("abc123", domainauth.TokenAdmin)

	api.EXPECT().Me(gomock.Any()).Return(testutil.NewPrincipal("ops").Build(), nil).Times(1)

	mgr := NewSessionManager(SessionManagerOptions{Tokens: tokens, API: api})
	snap := mgr.Bootstrap(context.Background())
	assert.True(t, snap.IsAuthenticated)
	assert.False(t, snap.IsSuperAdmin)
}

// Scenarios below run against a real client and a stub backend over HTTP.

func stubBackend(t *testing.T, meStatus *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var creds ports.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		w.Header().Set("Content-Type", "application/json")
		if creds.Username != "superadmin" || creds.Password != "admin123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"abc123","admin":{"username":"superadmin","role":"superadmin"}}`))
	})
	mux.HandleFunc("GET /api/admin/me", func(w http.ResponseWriter, r *http.Request) {
		if status := int(meStatus.Load()); status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		if r.Header.Get("Authorization") != "Bearer abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"username":"superadmin","role":"superadmin"}`))
	})
	mux.HandleFunc("GET /api/admin/users", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newHTTPSession(t *testing.T, srv *httptest.Server) (*SessionManager, *apiclient.Backend, *authmocks.MemoryTokenStore, *authmocks.RecordingNavigator) {
	t.Helper()
	tokens := authmocks.NewMemoryTokenStore()
	client, err := apiclient.New(apiclient.Options{BaseURL: srv.URL, Tokens: tokens})
	require.NoError(t, err)
	backend := apiclient.NewBackend(client)
	nav := &authmocks.RecordingNavigator{}
	mgr := NewSessionManager(SessionManagerOptions{Tokens: tokens, API: backend, Navigator: nav})
	t.Cleanup(mgr.Close)
	return mgr, backend, tokens, nav
}

func TestSessionScenario_LoginAgainstStubBackend(t *testing.T) {
	var meStatus atomic.Int32
	meStatus.Store(http.StatusOK)
	srv := stubBackend(t, &meStatus)
	mgr, _, tokens, nav := newHTTPSession(t, srv)
	ctx := context.Background()

	require.Equal(t, domainauth.StatusUnauthenticated, mgr.Bootstrap(ctx).Status)

	bad := mgr.Login(ctx, "bad", "bad")
	assert.Equal(t, LoginResult{Success: false, Message: "Invalid credentials"}, bad)
	assert.Equal(t, domainauth.StatusUnauthenticated, mgr.Snapshot().Status)
	assert.Empty(t, nav.Paths(), "a rejected login is not a forced logout")

	good := mgr.Login(ctx, "superadmin", "admin123")
	assert.True(t, good.Success)
	snap := mgr.Snapshot()
	assert.Equal(t, domainauth.StatusAuthenticated, snap.Status)
	assert.True(t, snap.IsSuperAdmin)
	tok, ok := tokens.Get(domainauth.TokenAdmin)
	require.True(t, ok)
	assert.Equal(t, "abc123", tok)
}

func TestSessionScenario_AnyLater401ForcesLogout(t *testing.T) {
	var meStatus atomic.Int32
	meStatus.Store(http.StatusOK)
	srv := stubBackend(t, &meStatus)
	mgr, backend, tokens, nav := newHTTPSession(t, srv)
	ctx := context.Background()

	mgr.Bootstrap(ctx)
	require.True(t, mgr.Login(ctx, "superadmin", "admin123").Success)

	_, err := backend.ListUsers(ctx, model.UserListOptions{})
	require.Error(t, err)

	assert.Equal(t, domainauth.StatusUnauthenticated, mgr.Snapshot().Status)
	_, ok := tokens.Get(domainauth.TokenAdmin)
	assert.False(t, ok)
	assert.Equal(t, []string{"/login"}, nav.Paths())
}

func TestSessionScenario_BootstrapRecovery(t *testing.T) {
	var meStatus atomic.Int32
	meStatus.Store(http.StatusUnauthorized)
	srv := stubBackend(t, &meStatus)
	mgr, _, tokens, _ := newHTTPSession(t, srv)
	tokens.Set("expired", domainauth.TokenAdmin)

	snap := mgr.Bootstrap(context.Background())

	assert.Equal(t, domainauth.StatusUnauthenticated, snap.Status)
	_, ok := tokens.Get(domainauth.TokenAdmin)
	assert.False(t, ok)
	assert.True(t, snap.Consistent())
}
