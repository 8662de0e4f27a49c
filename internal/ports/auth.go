// Package ports defines interfaces (hexagonal ports) for the admin session.
// Implementations live in internal/adapters and internal/apiclient; orchestration in internal/service.
package ports

import (
	"context"
	"time"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
)

// TokenStore persists bearer tokens per namespace with a fixed one-day lifetime.
// Storage failures never surface: an unavailable store behaves as empty.
type TokenStore interface {
	// Set stores token under kind, overwriting any previous value.
	Set(token string, kind domainauth.TokenKind)
	// Get returns the token for kind; ok is false when unset or expired.
	Get(kind domainauth.TokenKind) (token string, ok bool)
	// Remove deletes the token for kind. Idempotent.
	Remove(kind domainauth.TokenKind)
	// ClearAll removes every namespace.
	ClearAll()
}

// Credentials is the username/password pair exchanged for an admin token.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the backend's answer to a successful credential exchange.
type LoginResponse struct {
	Token string                `json:"token"`
	Admin *domainauth.Principal `json:"admin"`
}

// AdminAPI is the slice of the backend the session model depends on.
type AdminAPI interface {
	// Login exchanges credentials for a token and principal (POST /api/admin/login).
	Login(ctx context.Context, creds Credentials) (LoginResponse, error)
	// Me returns the principal bound to the current token (GET /api/admin/me).
	Me(ctx context.Context) (domainauth.Principal, error)
}

// AuthRejected describes a backend response that rejected the admin credential.
type AuthRejected struct {
	Method string
	Path   string
	At     time.Time
}

// AuthRejectedSource publishes AuthRejected events to subscribers.
type AuthRejectedSource interface {
	OnAuthRejected(fn func(AuthRejected)) (unsubscribe func())
}

// Navigator performs a hard navigation that discards in-memory state.
type Navigator interface {
	HardNavigate(path string)
}

// ProfileCache memoizes principals by credential to spare the backend a /me call per page view.
type ProfileCache interface {
	Get(ctx context.Context, token string) (domainauth.Principal, bool, error)
	Set(ctx context.Context, token string, principal domainauth.Principal, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}
