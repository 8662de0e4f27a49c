package config

import (
	"errors"
	"strings"
	"time"
)

const devJWTSecretDefault = "recruit-admin-dev-secret"

// DevAPIConfig controls the in-memory development backend.
type DevAPIConfig struct {
	Addr         string        `env:"DEVAPI_ADDR"          envDefault:":5000"`
	JWTSecret    string        `env:"DEVAPI_JWT_SECRET"    envDefault:"recruit-admin-dev-secret"`
	TokenTTL     time.Duration `env:"DEVAPI_TOKEN_TTL"     envDefault:"24h"`
	SeedUsername string        `env:"DEVAPI_SEED_USERNAME" envDefault:"superadmin"`
	SeedPassword string        `env:"DEVAPI_SEED_PASSWORD" envDefault:"admin123"`
	// SeedApplicants is how many demo applicants and applications to create.
	SeedApplicants int `env:"DEVAPI_SEED_APPLICANTS" envDefault:"25"`
}

// Sanitize applies guardrails to the dev backend configuration.
func (d *DevAPIConfig) Sanitize() {
	d.Addr = strings.TrimSpace(d.Addr)
	if d.Addr == "" {
		d.Addr = ":5000"
	}
	if d.TokenTTL <= 0 {
		d.TokenTTL = 24 * time.Hour
	}
	if d.SeedApplicants < 0 {
		d.SeedApplicants = 0
	}
}

// Validate refuses the built-in signing secret outside development mode.
func (d *DevAPIConfig) Validate(isDev bool) error {
	if d.JWTSecret == "" {
		return errors.New("DEVAPI_JWT_SECRET must not be empty")
	}
	if !isDev && d.JWTSecret == devJWTSecretDefault {
		return errors.New("DEVAPI_JWT_SECRET must be changed outside development mode")
	}
	return nil
}
