package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/target/recruit-admin/internal/apiclient"
	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	apperrors "github.com/target/recruit-admin/internal/errors"
	"github.com/target/recruit-admin/internal/ports"
)

const (
	// DefaultLoginPath is where a forced logout sends the browser.
	DefaultLoginPath = "/login"
	// DefaultLoginFailedMessage is shown when the backend gives no reason.
	DefaultLoginFailedMessage = "Login failed"
	// DefaultFetchTimeout bounds a shared /me fetch when no timeout is configured.
	DefaultFetchTimeout = 15 * time.Second
)

// Bootstrap outcomes reported to metrics.
const (
	BootstrapAuthenticated   = "authenticated"
	BootstrapUnauthenticated = "unauthenticated"
	BootstrapNoToken         = "no_token"
	BootstrapStale           = "stale"
	BootstrapAborted         = "aborted"
)

// SessionMetrics receives session lifecycle observations. *metrics.Metrics satisfies it.
type SessionMetrics interface {
	ObserveLogin(success bool)
	ObserveBootstrap(result string)
	IncForcedLogout()
	ObserveProfileCache(result string)
}

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	Tokens    ports.TokenStore
	API       ports.AdminAPI
	Navigator ports.Navigator
	// Profiles optionally caches /me answers per credential.
	Profiles   ports.ProfileCache
	ProfileTTL time.Duration
	// Flight collapses concurrent profile fetches for one credential; share it across managers.
	Flight *singleflight.Group
	// FetchTimeout bounds a shared profile fetch, which outlives the caller that started it.
	FetchTimeout time.Duration
	Logger       *slog.Logger
	Metrics      SessionMetrics
	LoginPath    string
}

// LoginResult is the typed outcome of Login. Failures carry a message and optional field errors.
type LoginResult struct {
	Success     bool
	Message     string
	FieldErrors map[string]string
}

// SessionManager is the sole owner of the admin Session. Every transition goes through it.
type SessionManager struct {
	tokens     ports.TokenStore
	api        ports.AdminAPI
	nav        ports.Navigator
	profiles   ports.ProfileCache
	profileTTL time.Duration
	flight     *singleflight.Group
	fetchTTL   time.Duration
	logger     *slog.Logger
	metrics    SessionMetrics
	loginPath  string

	bootstrapFlight singleflight.Group

	mu            sync.Mutex
	snap          domainauth.Snapshot
	epoch         uint64
	bootstrapDone bool
	subs          map[int]func(domainauth.Snapshot)
	nextSub       int
	stopEvents    func()
}

// NewSessionManager constructs a manager in the bootstrapping state and subscribes
// to AuthRejected events when the API publishes them.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	if opts.LoginPath == "" {
		opts.LoginPath = DefaultLoginPath
	}
	if opts.Flight == nil {
		opts.Flight = &singleflight.Group{}
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	m := &SessionManager{
		tokens:     opts.Tokens,
		api:        opts.API,
		nav:        opts.Navigator,
		profiles:   opts.Profiles,
		profileTTL: opts.ProfileTTL,
		flight:     opts.Flight,
		fetchTTL:   opts.FetchTimeout,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		loginPath:  opts.LoginPath,
		snap:       domainauth.NewSnapshot(domainauth.StatusBootstrapping, nil, ""),
		subs:       make(map[int]func(domainauth.Snapshot)),
	}
	if src, ok := opts.API.(ports.AuthRejectedSource); ok {
		m.stopEvents = src.OnAuthRejected(m.HandleAuthRejected)
	}
	return m
}

func (m *SessionManager) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return slog.Default()
}

// Close detaches the manager from the API's AuthRejected events.
func (m *SessionManager) Close() {
	m.mu.Lock()
	stop := m.stopEvents
	m.stopEvents = nil
	m.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Snapshot returns the current session view.
func (m *SessionManager) Snapshot() domainauth.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Subscribe registers fn to receive every new snapshot. The returned func unsubscribes.
func (m *SessionManager) Subscribe(fn func(domainauth.Snapshot)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
		})
	}
}

// transitionLocked replaces the snapshot and returns the subscribers to notify.
// Callers hold m.mu and must call notify after unlocking.
func (m *SessionManager) transitionLocked(next domainauth.Snapshot) []func(domainauth.Snapshot) {
	m.snap = next
	m.epoch++
	m.bootstrapDone = true
	fns := make([]func(domainauth.Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	return fns
}

func notify(fns []func(domainauth.Snapshot), snap domainauth.Snapshot) {
	for _, fn := range fns {
		fn(snap)
	}
}

// Bootstrap settles the session from the persisted admin token. It runs once; later
// calls return the current snapshot. Concurrent callers share the in-flight attempt.
func (m *SessionManager) Bootstrap(ctx context.Context) domainauth.Snapshot {
	m.mu.Lock()
	if m.bootstrapDone {
		snap := m.snap
		m.mu.Unlock()
		return snap
	}
	m.mu.Unlock()

	v, _, _ := m.bootstrapFlight.Do("bootstrap", func() (any, error) {
		m.bootstrap(ctx)
		return m.Snapshot(), nil
	})
	snap, _ := v.(domainauth.Snapshot)
	return snap
}

func (m *SessionManager) bootstrap(ctx context.Context) {
	m.mu.Lock()
	if m.bootstrapDone {
		m.mu.Unlock()
		return
	}
	epoch := m.epoch
	m.mu.Unlock()

	token, ok := m.getToken()
	if !ok {
		m.settleBootstrap(epoch, nil, "", BootstrapNoToken)
		return
	}

	principal, err := m.fetchProfile(ctx, token)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		// The caller went away; nothing was learned about the credential.
		m.log().DebugContext(ctx, "session bootstrap aborted", "error", err)
		m.settle(epoch, nil, "", false, BootstrapAborted)
		return
	}
	if err != nil {
		appErr := apperrors.FromAPI(err)
		m.log().InfoContext(ctx, "session bootstrap failed",
			"error_code", apperrors.GetCode(appErr), "error", err)
		if apperrors.IsUnauthorized(appErr) && m.epochIs(epoch) {
			// A 401 reached us without passing through our own client (shared fetch).
			m.forceLogout(ports.AuthRejected{Method: "GET", Path: apiclient.PathMe, At: time.Now()})
			m.observeBootstrap(BootstrapUnauthenticated)
			return
		}
		m.settleBootstrap(epoch, nil, "", BootstrapUnauthenticated)
		return
	}
	m.settleBootstrap(epoch, &principal, token, BootstrapAuthenticated)
}

func (m *SessionManager) epochIs(epoch uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch == epoch
}

// settleBootstrap applies a bootstrap result unless a login or logout finished meanwhile.
func (m *SessionManager) settleBootstrap(epoch uint64, principal *domainauth.Principal, token, result string) {
	m.settle(epoch, principal, token, true, result)
}

func (m *SessionManager) settle(epoch uint64, principal *domainauth.Principal, token string, dropToken bool, result string) {
	m.mu.Lock()
	if m.epoch != epoch || m.bootstrapDone {
		m.bootstrapDone = true
		m.mu.Unlock()
		m.observeBootstrap(BootstrapStale)
		return
	}
	var next domainauth.Snapshot
	if principal != nil {
		next = domainauth.NewSnapshot(domainauth.StatusAuthenticated, principal, token)
	} else {
		if dropToken {
			m.removeToken()
		}
		next = domainauth.NewSnapshot(domainauth.StatusUnauthenticated, nil, "")
	}
	fns := m.transitionLocked(next)
	m.mu.Unlock()

	m.observeBootstrap(result)
	notify(fns, next)
}

// fetchProfile consults the profile cache, then /me, collapsing concurrent fetches per credential.
func (m *SessionManager) fetchProfile(ctx context.Context, token string) (domainauth.Principal, error) {
	if m.api == nil {
		return domainauth.Principal{}, errors.New("session manager has no admin API")
	}
	if p, ok := m.cachedProfile(ctx, token); ok {
		return p, nil
	}

	// The shared call is detached from the caller that started it so one aborted
	// request cannot fail the bootstrap of every other request holding the token.
	api := m.api
	ch := m.flight.DoChan(tokenDigest(token), func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.fetchTTL)
		defer cancel()
		p, err := api.Me(fetchCtx)
		if err != nil {
			return domainauth.Principal{}, err
		}
		m.cacheProfile(fetchCtx, token, p)
		return p, nil
	})
	select {
	case <-ctx.Done():
		return domainauth.Principal{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domainauth.Principal{}, res.Err
		}
		p, _ := res.Val.(domainauth.Principal)
		return p, nil
	}
}

func (m *SessionManager) cachedProfile(ctx context.Context, token string) (domainauth.Principal, bool) {
	if m.profiles == nil || m.profileTTL <= 0 {
		return domainauth.Principal{}, false
	}
	p, ok, err := m.profiles.Get(ctx, token)
	switch {
	case err != nil:
		m.log().WarnContext(ctx, "profile cache lookup failed", "error", err)
		m.observeProfileCache("error")
		return domainauth.Principal{}, false
	case !ok:
		m.observeProfileCache("miss")
		return domainauth.Principal{}, false
	default:
		m.observeProfileCache("hit")
		return p, true
	}
}

func (m *SessionManager) cacheProfile(ctx context.Context, token string, p domainauth.Principal) {
	if m.profiles == nil || m.profileTTL <= 0 {
		return
	}
	if err := m.profiles.Set(ctx, token, p, m.profileTTL); err != nil {
		m.log().WarnContext(ctx, "profile cache write failed", "error", err)
	}
}

func (m *SessionManager) evictProfile(token string) {
	if m.profiles == nil || token == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.profiles.Delete(ctx, token); err != nil {
		m.log().Warn("profile cache eviction failed", "error", err)
	}
}

// Login exchanges credentials for a token. It never returns a Go error; failures are typed results.
func (m *SessionManager) Login(ctx context.Context, username, password string) LoginResult {
	if m.api == nil {
		return LoginResult{Message: DefaultLoginFailedMessage}
	}
	resp, err := m.api.Login(ctx, ports.Credentials{Username: username, Password: password})
	if err != nil {
		result := loginFailure(err)
		m.log().InfoContext(ctx, "admin login failed", "username", username, "status", apiclient.StatusCode(err))
		m.observeLogin(false)
		return result
	}
	if resp.Token == "" || resp.Admin == nil {
		m.observeLogin(false)
		return LoginResult{Message: DefaultLoginFailedMessage}
	}

	m.mu.Lock()
	previous := m.snap.Credential
	m.setToken(resp.Token)
	next := domainauth.NewSnapshot(domainauth.StatusAuthenticated, resp.Admin, resp.Token)
	fns := m.transitionLocked(next)
	m.mu.Unlock()

	if previous != "" && previous != resp.Token {
		m.evictProfile(previous)
	}
	m.cacheProfile(ctx, resp.Token, *resp.Admin)
	m.log().InfoContext(ctx, "admin logged in", "username", resp.Admin.Username, "role", resp.Admin.Role)
	m.observeLogin(true)
	notify(fns, next)
	return LoginResult{Success: true}
}

func loginFailure(err error) LoginResult {
	result := LoginResult{Message: DefaultLoginFailedMessage}
	var re *apiclient.ResponseError
	if errors.As(err, &re) {
		if msg := strings.TrimSpace(re.Message); msg != "" {
			result.Message = msg
		}
		if len(re.FieldErrors) > 0 {
			result.FieldErrors = re.FieldErrors
		}
	}
	return result
}

// Logout ends the session locally. It makes no network call and is idempotent.
func (m *SessionManager) Logout() {
	m.mu.Lock()
	previous := m.snap.Credential
	m.removeToken()
	if m.snap.Status == domainauth.StatusUnauthenticated {
		m.bootstrapDone = true
		m.mu.Unlock()
		return
	}
	next := domainauth.NewSnapshot(domainauth.StatusUnauthenticated, nil, "")
	fns := m.transitionLocked(next)
	m.mu.Unlock()

	m.evictProfile(previous)
	m.log().Info("admin logged out")
	notify(fns, next)
}

// HandleAuthRejected is the forced-logout policy: clear the credential and session, then
// hard-navigate to the login entry point.
func (m *SessionManager) HandleAuthRejected(ev ports.AuthRejected) {
	m.forceLogout(ev)
}

func (m *SessionManager) forceLogout(ev ports.AuthRejected) {
	m.mu.Lock()
	previous := m.snap.Credential
	m.removeToken()
	next := domainauth.NewSnapshot(domainauth.StatusUnauthenticated, nil, "")
	fns := m.transitionLocked(next)
	m.mu.Unlock()

	m.evictProfile(previous)
	m.log().Warn("backend rejected admin credential, forcing logout",
		"method", ev.Method, "path", ev.Path)
	if m.metrics != nil {
		m.metrics.IncForcedLogout()
	}
	notify(fns, next)
	if m.nav != nil {
		m.nav.HardNavigate(m.loginPath)
	}
}

// RefreshProfile refetches /me and replaces the principal wholesale.
func (m *SessionManager) RefreshProfile(ctx context.Context) error {
	m.mu.Lock()
	if m.snap.Status != domainauth.StatusAuthenticated {
		m.mu.Unlock()
		return apperrors.Unauthorized("not signed in")
	}
	token := m.snap.Credential
	epoch := m.epoch
	m.mu.Unlock()

	if m.api == nil {
		return apperrors.Internal("session manager has no admin API")
	}
	p, err := m.api.Me(ctx)
	if err != nil {
		return apperrors.FromAPI(err)
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return nil
	}
	next := domainauth.NewSnapshot(domainauth.StatusAuthenticated, &p, token)
	fns := m.transitionLocked(next)
	m.mu.Unlock()

	m.cacheProfile(ctx, token, p)
	notify(fns, next)
	return nil
}

func (m *SessionManager) getToken() (string, bool) {
	if m.tokens == nil {
		return "", false
	}
	return m.tokens.Get(domainauth.TokenAdmin)
}

func (m *SessionManager) setToken(token string) {
	if m.tokens != nil {
		m.tokens.Set(token, domainauth.TokenAdmin)
	}
}

func (m *SessionManager) removeToken() {
	if m.tokens != nil {
		m.tokens.Remove(domainauth.TokenAdmin)
	}
}

func (m *SessionManager) observeLogin(ok bool) {
	if m.metrics != nil {
		m.metrics.ObserveLogin(ok)
	}
}

func (m *SessionManager) observeBootstrap(result string) {
	if m.metrics != nil {
		m.metrics.ObserveBootstrap(result)
	}
}

func (m *SessionManager) observeProfileCache(result string) {
	if m.metrics != nil {
		m.metrics.ObserveProfileCache(result)
	}
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
