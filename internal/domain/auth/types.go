// Package auth contains domain-level types for the admin session.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"fmt"
	"strings"
	"time"
)

// Role represents an admin's authorization role.
// Keep string form for easy persistence and wire compatibility with the backend.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole converts a wire value into a Role. Only the closed set of roles is accepted.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleSuperAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("invalid role %q (valid options: admin, superadmin)", s)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleSuperAdmin }

// IsSuperAdmin reports whether r grants super admin privileges.
func (r Role) IsSuperAdmin() bool { return r == RoleSuperAdmin }

// UnmarshalText implements encoding.TextUnmarshaler so JSON payloads are validated on decode.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Principal is the authenticated admin identity returned by the backend.
type Principal struct {
	ID        string     `json:"id,omitempty"        yaml:"id,omitempty"`
	Username  string     `json:"username"            yaml:"username"`
	FullName  string     `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	Email     string     `json:"email,omitempty"     yaml:"email,omitempty"`
	Role      Role       `json:"role"                yaml:"role"`
	IsActive  bool       `json:"is_active"           yaml:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty" yaml:"last_login,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// DisplayName returns the full name when known, otherwise the username.
func (p Principal) DisplayName() string {
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	return p.Username
}

// Status is the lifecycle state of an admin session.
type Status string

const (
	StatusBootstrapping   Status = "bootstrapping"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Snapshot is an immutable view of the session at a point in time.
// Derived flags are computed once when the snapshot is built.
type Snapshot struct {
	Status          Status
	Principal       *Principal
	Credential      string
	IsAuthenticated bool
	IsSuperAdmin    bool
}

// NewSnapshot builds a snapshot and derives the role flags from the principal.
func NewSnapshot(status Status, principal *Principal, credential string) Snapshot {
	s := Snapshot{Status: status, Credential: credential}
	if principal != nil {
		p := *principal
		s.Principal = &p
		s.IsAuthenticated = true
		s.IsSuperAdmin = p.Role.IsSuperAdmin()
	}
	return s
}

// Settled reports whether the session has left the bootstrapping state.
func (s Snapshot) Settled() bool { return s.Status != StatusBootstrapping }

// Consistent reports whether the snapshot satisfies the session invariant:
// authenticated if and only if both principal and credential are present,
// and never one without the other.
func (s Snapshot) Consistent() bool {
	hasPrincipal := s.Principal != nil
	hasCredential := s.Credential != ""
	if hasPrincipal != hasCredential {
		return false
	}
	return (s.Status == StatusAuthenticated) == hasPrincipal
}

// TokenKind namespaces persisted bearer tokens.
type TokenKind int

const (
	// TokenUser is the reserved non-admin namespace.
	TokenUser TokenKind = iota
	// TokenAdmin holds the admin console credential.
	TokenAdmin
)

// Cookie names used for each token namespace.
const (
	AdminTokenKey = "admin_token"
	UserTokenKey  = "token"
)

// Key returns the storage key for the namespace.
func (k TokenKind) Key() string {
	if k == TokenAdmin {
		return AdminTokenKey
	}
	return UserTokenKey
}

// AllTokenKinds lists every namespace, for ClearAll implementations.
func AllTokenKinds() []TokenKind { return []TokenKind{TokenAdmin, TokenUser} }

// DefaultTokenTTL is the fixed lifetime given to a persisted token at write time.
const DefaultTokenTTL = 24 * time.Hour
