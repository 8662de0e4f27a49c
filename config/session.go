package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionConfig controls the admin session.
type SessionConfig struct {
	// TokenTTL is how long a persisted admin token lives.
	TokenTTL time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"24h"`

	// ProfileCacheTTL is how long a /api/admin/me answer is reused. 0 disables the cache.
	ProfileCacheTTL time.Duration `env:"SESSION_PROFILE_CACHE_TTL" envDefault:"30s"`

	// LoginPath is where unauthenticated visitors and forced logouts land.
	LoginPath string `env:"SESSION_LOGIN_PATH" envDefault:"/login"`

	// HomePath is where signed-in admins land, including after a super admin denial.
	HomePath string `env:"SESSION_HOME_PATH" envDefault:"/dashboard"`

	// CookieFile overrides the CLI token file location.
	CookieFile string `env:"SESSION_COOKIE_FILE"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.TokenTTL <= 0 {
		s.TokenTTL = 24 * time.Hour
	}
	if s.ProfileCacheTTL < 0 {
		s.ProfileCacheTTL = 0
	}
	s.LoginPath = strings.TrimSpace(s.LoginPath)
	if s.LoginPath == "" {
		s.LoginPath = "/login"
	}
	s.HomePath = strings.TrimSpace(s.HomePath)
	if s.HomePath == "" {
		s.HomePath = "/dashboard"
	}
	s.CookieFile = strings.TrimSpace(s.CookieFile)
}

// Validate checks the configured paths are local.
func (s *SessionConfig) Validate() error {
	for name, p := range map[string]string{"SESSION_LOGIN_PATH": s.LoginPath, "SESSION_HOME_PATH": s.HomePath} {
		if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
			return fmt.Errorf("%s %q must be a local absolute path", name, p)
		}
	}
	if s.LoginPath == s.HomePath {
		return fmt.Errorf("SESSION_LOGIN_PATH and SESSION_HOME_PATH must differ")
	}
	return nil
}
