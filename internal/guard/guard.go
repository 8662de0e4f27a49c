// Package guard decides whether a session may see a protected page.
package guard

import (
	"sync"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
)

// Decision is the outcome kind of a route authorization check.
type Decision string

const (
	Pending         Decision = "pending"
	Allow           Decision = "allow"
	RedirectToLogin Decision = "redirect-to-login"
	RedirectToHome  Decision = "redirect-to-home"
)

// Default paths and warnings.
const (
	DefaultLoginPath = "/login"
	DefaultHomePath  = "/dashboard"

	LoginRequiredWarning = "Please log in to access this page"
	SuperAdminWarning    = "Access denied. Super admin privileges required."
)

// Requirement describes what a protected route demands of the session.
type Requirement struct {
	RequireSuperAdmin bool
}

// Outcome is a Decision plus where to go and what to tell the user.
type Outcome struct {
	Decision Decision
	Redirect string
	Warning  string
}

// Allowed reports whether the protected content may render.
func (o Outcome) Allowed() bool { return o.Decision == Allow }

// Guard carries the redirect targets. The zero value uses the defaults.
type Guard struct {
	LoginPath string
	HomePath  string
}

func (g Guard) loginPath() string {
	if g.LoginPath == "" {
		return DefaultLoginPath
	}
	return g.LoginPath
}

func (g Guard) homePath() string {
	if g.HomePath == "" {
		return DefaultHomePath
	}
	return g.HomePath
}

// Decide evaluates the rules in order; the first match wins.
func (g Guard) Decide(snap domainauth.Snapshot, req Requirement) Outcome {
	switch {
	case snap.Status == domainauth.StatusBootstrapping:
		return Outcome{Decision: Pending}
	case !snap.IsAuthenticated:
		return Outcome{Decision: RedirectToLogin, Redirect: g.loginPath(), Warning: LoginRequiredWarning}
	case req.RequireSuperAdmin && !snap.IsSuperAdmin:
		return Outcome{Decision: RedirectToHome, Redirect: g.homePath(), Warning: SuperAdminWarning}
	default:
		return Outcome{Decision: Allow}
	}
}

// Decide evaluates req against snap with the default paths.
func Decide(snap domainauth.Snapshot, req Requirement) Outcome {
	return Guard{}.Decide(snap, req)
}

// Source is the part of the session manager Watch needs.
type Source interface {
	Snapshot() domainauth.Snapshot
	Subscribe(fn func(domainauth.Snapshot)) (unsubscribe func())
}

// Watch evaluates immediately and then on every session change, calling fn only
// when the outcome differs from the last one delivered. The returned func stops watching.
func (g Guard) Watch(src Source, req Requirement, fn func(Outcome)) (stop func()) {
	var (
		mu      sync.Mutex
		last    Outcome
		started bool
		stopped bool
	)
	// Always read the latest snapshot so a late notification cannot deliver a stale outcome.
	deliver := func(domainauth.Snapshot) {
		mu.Lock()
		out := g.Decide(src.Snapshot(), req)
		if stopped || (started && out == last) {
			mu.Unlock()
			return
		}
		last, started = out, true
		mu.Unlock()
		fn(out)
	}

	unsubscribe := src.Subscribe(deliver)
	deliver(domainauth.Snapshot{})

	return func() {
		mu.Lock()
		stopped = true
		mu.Unlock()
		unsubscribe()
	}
}

// Watch uses the default paths.
func Watch(src Source, req Requirement, fn func(Outcome)) (stop func()) {
	return Guard{}.Watch(src, req, fn)
}
