package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// BackendConfig configures the client for the recruitment backend REST API.
type BackendConfig struct {
	// URL is the backend origin; request paths such as /api/admin/me are joined to it.
	URL string `env:"API_URL" envDefault:"http://localhost:5000"`

	// Timeout bounds every backend request.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`

	// MessagePath is a JMESPath expression locating the human-readable message in error bodies.
	MessagePath string `env:"API_ERROR_MESSAGE_PATH" envDefault:"message"`

	// FieldErrorsPath is a JMESPath expression locating per-field validation errors.
	FieldErrorsPath string `env:"API_FIELD_ERRORS_PATH" envDefault:"errors"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.URL = strings.TrimRight(strings.TrimSpace(b.URL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 15 * time.Second
	}
	if strings.TrimSpace(b.MessagePath) == "" {
		b.MessagePath = "message"
	}
	if strings.TrimSpace(b.FieldErrorsPath) == "" {
		b.FieldErrorsPath = "errors"
	}
}

// Validate checks the backend URL is absolute.
func (b *BackendConfig) Validate() error {
	u, err := url.Parse(b.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("API_URL %q must be an absolute http(s) URL", b.URL)
	}
	return nil
}
