package guard

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
)

func snapshotFor(status domainauth.Status, role domainauth.Role) domainauth.Snapshot {
	if status != domainauth.StatusAuthenticated {
		return domainauth.NewSnapshot(status, nil, "")
	}
	return domainauth.NewSnapshot(status, &domainauth.Principal{Username: "u", Role: role}, "tok")
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		snap    domainauth.Snapshot
		req     Requirement
		want    Decision
		to      string
		warning string
	}{
		{"bootstrapping", snapshotFor(domainauth.StatusBootstrapping, ""), Requirement{}, Pending, "", ""},
		{"bootstrapping super route", snapshotFor(domainauth.StatusBootstrapping, ""), Requirement{RequireSuperAdmin: true}, Pending, "", ""},
		{"anonymous", snapshotFor(domainauth.StatusUnauthenticated, ""), Requirement{}, RedirectToLogin, "/login", LoginRequiredWarning},
		{"anonymous super route", snapshotFor(domainauth.StatusUnauthenticated, ""), Requirement{RequireSuperAdmin: true}, RedirectToLogin, "/login", LoginRequiredWarning},
		{"admin", snapshotFor(domainauth.StatusAuthenticated, domainauth.RoleAdmin), Requirement{}, Allow, "", ""},
		{"admin super route", snapshotFor(domainauth.StatusAuthenticated, domainauth.RoleAdmin), Requirement{RequireSuperAdmin: true}, RedirectToHome, "/dashboard", SuperAdminWarning},
		{"superadmin", snapshotFor(domainauth.StatusAuthenticated, domainauth.RoleSuperAdmin), Requirement{}, Allow, "", ""},
		{"superadmin super route", snapshotFor(domainauth.StatusAuthenticated, domainauth.RoleSuperAdmin), Requirement{RequireSuperAdmin: true}, Allow, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.snap, tt.req)
			assert.Equal(t, tt.want, got.Decision)
			assert.Equal(t, tt.to, got.Redirect)
			assert.Equal(t, tt.warning, got.Warning)
			assert.Equal(t, tt.want == Allow, got.Allowed())
		})
	}
}

func TestDecide_CustomPaths(t *testing.T) {
	g := Guard{LoginPath: "/signin", HomePath: "/home"}
	assert.Equal(t, "/signin", g.Decide(snapshotFor(domainauth.StatusUnauthenticated, ""), Requirement{}).Redirect)
	assert.Equal(t, "/home", g.Decide(snapshotFor(domainauth.StatusAuthenticated, domainauth.RoleAdmin), Requirement{RequireSuperAdmin: true}).Redirect)
}

func TestDecide_SuperRouteNeverAllowsNonSuper(t *testing.T) {
	for _, status := range []domainauth.Status{domainauth.StatusBootstrapping, domainauth.StatusUnauthenticated, domainauth.StatusAuthenticated} {
		got := Decide(snapshotFor(status, domainauth.RoleAdmin), Requirement{RequireSuperAdmin: true})
		assert.False(t, got.Allowed(), status)
		if status == domainauth.StatusAuthenticated {
			assert.Equal(t, "/dashboard", got.Redirect)
		}
	}
}

// fakeSource is a minimal session publisher.
type fakeSource struct {
	mu   sync.Mutex
	snap domainauth.Snapshot
	subs map[int]func(domainauth.Snapshot)
	next int
}

func newFakeSource(snap domainauth.Snapshot) *fakeSource {
	return &fakeSource{snap: snap, subs: map[int]func(domainauth.Snapshot){}}
}

func (f *fakeSource) Snapshot() domainauth.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSource) Subscribe(fn func(domainauth.Snapshot)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *fakeSource) set(snap domainauth.Snapshot) {
	f.mu.Lock()
	f.snap = snap
	fns := make([]func(domainauth.Snapshot), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func TestWatch_ReevaluatesOnChange(t *testing.T) {
	src := newFakeSource(snapshotFor(domainauth.StatusBootstrapping, ""))
	var got []Decision
	stop := Watch(src, Requirement{RequireSuperAdmin: true}, func(o Outcome) { got = append(got, o.Decision) })

	src.set(snapshotFor(domainauth.StatusAuthenticated, domainauth.RoleSuperAdmin))
	src.set(snapshotFor(domainauth.StatusAuthenticated, domainauth.RoleSuperAdmin))
	src.set(snapshotFor(domainauth.StatusUnauthenticated, ""))

	assert.Equal(t, []Decision{Pending, Allow, RedirectToLogin}, got)

	stop()
	src.set(snapshotFor(domainauth.StatusAuthenticated, domainauth.RoleSuperAdmin))
	assert.Len(t, got, 3)
	require.Empty(t, src.subs)
}

func TestWatch_LogoutRevokesAllow(t *testing.T) {
	src := newFakeSource(snapshotFor(domainauth.StatusAuthenticated, domainauth.RoleAdmin))
	var last Outcome
	stop := Watch(src, Requirement{}, func(o Outcome) { last = o })
	defer stop()

	require.True(t, last.Allowed())
	src.set(snapshotFor(domainauth.StatusUnauthenticated, ""))
	assert.Equal(t, RedirectToLogin, last.Decision)
	assert.Equal(t, LoginRequiredWarning, last.Warning)
}
