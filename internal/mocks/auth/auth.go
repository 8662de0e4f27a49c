package auth

// Package auth contains simple hand-written test doubles for the session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.TokenStore         = (*MemoryTokenStore)(nil)
	_ ports.Navigator          = (*RecordingNavigator)(nil)
	_ ports.ProfileCache       = (*MemoryProfileCache)(nil)
	_ ports.AdminAPI           = (*StubAdminAPI)(nil)
	_ ports.AuthRejectedSource = (*StubAdminAPI)(nil)
)

type tokenEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryTokenStore is an in-memory TokenStore with an injectable clock.
type MemoryTokenStore struct {
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
	// TTL overrides the token lifetime; zero means one day.
	TTL time.Duration

	mu      sync.Mutex
	entries map[domainauth.TokenKind]tokenEntry
}

// NewMemoryTokenStore creates an empty store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{entries: make(map[domainauth.TokenKind]tokenEntry)}
}

func (m *MemoryTokenStore) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *MemoryTokenStore) ttl() time.Duration {
	if m.TTL > 0 {
		return m.TTL
	}
	return domainauth.DefaultTokenTTL
}

func (m *MemoryTokenStore) Set(token string, kind domainauth.TokenKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[domainauth.TokenKind]tokenEntry)
	}
	m.entries[kind] = tokenEntry{value: token, expiresAt: m.now().Add(m.ttl())}
}

func (m *MemoryTokenStore) Get(kind domainauth.TokenKind) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[kind]
	if !ok || e.value == "" || !m.now().Before(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

func (m *MemoryTokenStore) Remove(kind domainauth.TokenKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, kind)
}

func (m *MemoryTokenStore) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
}

// RecordingNavigator records every hard navigation.
type RecordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *RecordingNavigator) HardNavigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

// Paths returns a copy of the recorded navigation targets.
func (n *RecordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type profileEntry struct {
	principal domainauth.Principal
	expiresAt time.Time
}

// MemoryProfileCache is an in-memory ProfileCache for unit tests.
type MemoryProfileCache struct {
	// Err, when set, is returned from every call.
	Err error

	mu      sync.Mutex
	entries map[string]profileEntry
}

// NewMemoryProfileCache creates an empty cache.
func NewMemoryProfileCache() *MemoryProfileCache {
	return &MemoryProfileCache{entries: make(map[string]profileEntry)}
}

func (c *MemoryProfileCache) Get(_ context.Context, token string) (domainauth.Principal, bool, error) {
	if c.Err != nil {
		return domainauth.Principal{}, false, c.Err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[token]
	if !ok || time.Now().After(e.expiresAt) {
		return domainauth.Principal{}, false, nil
	}
	return e.principal, true, nil
}

func (c *MemoryProfileCache) Set(_ context.Context, token string, p domainauth.Principal, ttl time.Duration) error {
	if c.Err != nil {
		return c.Err
	}
	if token == "" {
		return errors.New("token cannot be empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]profileEntry)
	}
	c.entries[token] = profileEntry{principal: p, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *MemoryProfileCache) Delete(_ context.Context, token string) error {
	if c.Err != nil {
		return c.Err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
	return nil
}

// Len reports how many principals are cached.
func (c *MemoryProfileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// StubAdminAPI simulates the backend's session endpoints with overridable funcs.
// It also acts as an AuthRejectedSource so tests can fire forced-logout events.
type StubAdminAPI struct {
	LoginFunc func(ctx context.Context, creds ports.Credentials) (ports.LoginResponse, error)
	MeFunc    func(ctx context.Context) (domainauth.Principal, error)

	mu          sync.Mutex
	loginCalls  int
	meCalls     int
	subscribers map[int]func(ports.AuthRejected)
	nextID      int
}

// ErrNotConfigured is returned when a stub method has no func set.
var ErrNotConfigured = errors.New("stub not configured")

func (s *StubAdminAPI) Login(ctx context.Context, creds ports.Credentials) (ports.LoginResponse, error) {
	s.mu.Lock()
	s.loginCalls++
	fn := s.LoginFunc
	s.mu.Unlock()
	if fn == nil {
		return ports.LoginResponse{}, ErrNotConfigured
	}
	return fn(ctx, creds)
}

func (s *StubAdminAPI) Me(ctx context.Context) (domainauth.Principal, error) {
	s.mu.Lock()
	s.meCalls++
	fn := s.MeFunc
	s.mu.Unlock()
	if fn == nil {
		return domainauth.Principal{}, ErrNotConfigured
	}
	return fn(ctx)
}

// LoginCalls reports how many times Login was invoked.
func (s *StubAdminAPI) LoginCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginCalls
}

// MeCalls reports how many times Me was invoked.
func (s *StubAdminAPI) MeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meCalls
}

func (s *StubAdminAPI) OnAuthRejected(fn func(ports.AuthRejected)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribers == nil {
		s.subscribers = make(map[int]func(ports.AuthRejected))
	}
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Reject delivers an AuthRejected event to every subscriber.
func (s *StubAdminAPI) Reject(path string) {
	s.mu.Lock()
	fns := make([]func(ports.AuthRejected), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	ev := ports.AuthRejected{Method: "GET", Path: path, At: time.Now()}
	for _, fn := range fns {
		fn(ev)
	}
}

// Subscribers reports the number of live subscriptions.
func (s *StubAdminAPI) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}
