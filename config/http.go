package config

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the console (e.g., "https://admin.example.com").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for the admin_token cookie.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// CompressionEnabled enables gzip compression for text-based assets.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`

	// CompressionLevel is the gzip compression level (1-9).
	// Default is 6 (standard gzip default).
	CompressionLevel int `env:"HTTP_COMPRESSION_LEVEL" envDefault:"6"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	// Clamp compression level to valid gzip range (1-9)
	if h.CompressionLevel < 1 {
		h.CompressionLevel = 1
	}
	if h.CompressionLevel > 9 {
		h.CompressionLevel = 9
	}
	h.BaseURL = strings.TrimRight(strings.TrimSpace(h.BaseURL), "/")
	h.CookieDomain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h.CookieDomain), "."))
}

// Validate checks the base URL and that the cookie domain is not a public suffix.
func (h *HTTPConfig) Validate() error {
	if h.BaseURL != "" {
		u, err := url.Parse(h.BaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("APP_BASE_URL %q must be an absolute http(s) URL", h.BaseURL)
		}
	}
	return ValidateCookieDomain(h.CookieDomain)
}

// SecureCookies reports whether cookies should carry the Secure attribute.
func (h *HTTPConfig) SecureCookies() bool {
	return strings.HasPrefix(h.BaseURL, "https://")
}

// ValidateCookieDomain rejects domains browsers would refuse, such as "com" or "co.uk".
// An empty domain and localhost are allowed.
func ValidateCookieDomain(domain string) error {
	if domain == "" || domain == "localhost" {
		return nil
	}
	if strings.ContainsAny(domain, ":/ ") {
		return fmt.Errorf("APP_COOKIE_DOMAIN %q must be a bare host name", domain)
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return fmt.Errorf("APP_COOKIE_DOMAIN %q is a public suffix: %w", domain, err)
	}
	if !strings.HasSuffix(domain, etld1) {
		return fmt.Errorf("APP_COOKIE_DOMAIN %q is not under %q", domain, etld1)
	}
	return nil
}
