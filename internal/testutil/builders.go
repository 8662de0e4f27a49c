// Package testutil provides testing utilities and helpers for recruit-admin.
package testutil

import (
	"fmt"
	"time"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
)

// PrincipalBuilder provides a fluent interface for building admin principals.
type PrincipalBuilder struct {
	p domainauth.Principal
}

// NewPrincipal creates a PrincipalBuilder for an active admin with sensible defaults.
func NewPrincipal(username string) *PrincipalBuilder {
	return &PrincipalBuilder{p: domainauth.Principal{
		ID:       "admin-" + username,
		Username: username,
		FullName: "Test " + username,
		Email:    username + "@example.com",
		Role:     domainauth.RoleAdmin,
		IsActive: true,
	}}
}

// SuperAdmin grants the superadmin role.
func (b *PrincipalBuilder) SuperAdmin() *PrincipalBuilder {
	b.p.Role = domainauth.RoleSuperAdmin
	return b
}

// WithID overrides the generated ID.
func (b *PrincipalBuilder) WithID(id string) *PrincipalBuilder {
	b.p.ID = id
	return b
}

// Inactive marks the admin deactivated.
func (b *PrincipalBuilder) Inactive() *PrincipalBuilder {
	b.p.IsActive = false
	return b
}

// Build returns the principal.
func (b *PrincipalBuilder) Build() domainauth.Principal { return b.p }

// SuperAdmin returns the seeded superadmin principal used across tests.
func SuperAdmin() domainauth.Principal {
	return NewPrincipal("superadmin").WithID("admin-1").SuperAdmin().Build()
}

// Applications builds n applications cycling through every status.
func Applications(n int) []model.Application {
	statuses := model.ApplicationStatuses()
	out := make([]model.Application, 0, n)
	for i := range n {
		submitted := TestTime().Add(-time.Duration(i) * 24 * time.Hour)
		out = append(out, model.Application{
			ID:                fmt.Sprintf("app-%d", i+1),
			ApplicationNumber: fmt.Sprintf("APP-%05d", i+1),
			Status:            statuses[i%len(statuses)],
			FullName:          fmt.Sprintf("Applicant %d", i+1),
			Email:             fmt.Sprintf("applicant%d@example.com", i+1),
			SubmittedAt:       TimePtr(submitted),
		})
	}
	return out
}
