// Package cookiestore provides a request-scoped TokenStore backed by browser cookies.
package cookiestore

import (
	"net/http"
	"strings"
	"sync"
	"time"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
)

// Options configures cookie attributes shared by every token namespace.
type Options struct {
	// Domain is the cookie domain; empty scopes cookies to the request host.
	Domain string
	// TTL is the lifetime given to a token at write time (default one day).
	TTL time.Duration
	// Now overrides the clock in tests.
	Now func() time.Time
}

type entry struct {
	value   string
	removed bool
}

// Store reads tokens from the incoming request and writes Set-Cookie headers to the response.
// Writes are kept in a request-local overlay so a Set followed by a Get in the same request agrees.
// A Store without a request and writer is a no-op store that always reports absent.
type Store struct {
	r    *http.Request
	w    http.ResponseWriter
	opts Options

	mu      sync.Mutex
	overlay map[domainauth.TokenKind]entry
}

// New binds a Store to one request/response pair.
func New(w http.ResponseWriter, r *http.Request, opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = domainauth.DefaultTokenTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{r: r, w: w, opts: opts, overlay: make(map[domainauth.TokenKind]entry)}
}

func (s *Store) available() bool { return s != nil && s.r != nil && s.w != nil }

// Set stores token under kind with a fixed lifetime from now.
func (s *Store) Set(token string, kind domainauth.TokenKind) {
	if !s.available() {
		return
	}
	if token == "" {
		s.Remove(kind)
		return
	}
	s.mu.Lock()
	s.overlay[kind] = entry{value: token}
	s.mu.Unlock()

	http.SetCookie(s.w, &http.Cookie{
		Name:     kind.Key(),
		Value:    token,
		Path:     "/",
		Domain:   s.opts.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(s.r),
		SameSite: http.SameSiteLaxMode,
		Expires:  s.opts.Now().Add(s.opts.TTL).UTC(),
		MaxAge:   int(s.opts.TTL.Seconds()),
	})
}

// Get returns the token for kind from the overlay, then from the request cookies.
func (s *Store) Get(kind domainauth.TokenKind) (string, bool) {
	if !s.available() {
		return "", false
	}
	s.mu.Lock()
	e, ok := s.overlay[kind]
	s.mu.Unlock()
	if ok {
		if e.removed {
			return "", false
		}
		return e.value, true
	}

	c, err := s.r.Cookie(kind.Key())
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return "", false
	}
	return c.Value, true
}

// Remove expires the cookie for kind. Idempotent.
func (s *Store) Remove(kind domainauth.TokenKind) {
	if !s.available() {
		return
	}
	s.mu.Lock()
	prev, seen := s.overlay[kind]
	s.overlay[kind] = entry{removed: true}
	s.mu.Unlock()
	if seen && prev.removed {
		return
	}

	http.SetCookie(s.w, &http.Cookie{
		Name:     kind.Key(),
		Value:    "",
		Path:     "/",
		Domain:   s.opts.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(s.r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAll removes every token namespace.
func (s *Store) ClearAll() {
	for _, kind := range domainauth.AllTokenKinds() {
		s.Remove(kind)
	}
}

// isSecureRequest reports whether the request arrived over HTTPS, directly or via a proxy.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
