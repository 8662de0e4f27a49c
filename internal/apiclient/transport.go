package apiclient

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/ports"
)

type credentialExchangeKey struct{}

// CredentialExchange marks ctx as carrying a login request. A 401 on such a request means
// bad credentials, not a rejected session, so it does not trigger the forced-logout path.
func CredentialExchange(ctx context.Context) context.Context {
	return context.WithValue(ctx, credentialExchangeKey{}, true)
}

func isCredentialExchange(ctx context.Context) bool {
	v, _ := ctx.Value(credentialExchangeKey{}).(bool)
	return v
}

// rejectionBus fans AuthRejected events out to subscribers.
type rejectionBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(ports.AuthRejected)
}

func (b *rejectionBus) subscribe(fn func(ports.AuthRejected)) func() {
	if fn == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]func(ports.AuthRejected))
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		})
	}
}

// publish calls subscribers outside the lock so they may unsubscribe or issue requests.
func (b *rejectionBus) publish(ev ports.AuthRejected) {
	b.mu.Lock()
	fns := make([]func(ports.AuthRejected), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// authTransport reads the admin token on every request and reacts to 401 responses.
type authTransport struct {
	base   http.RoundTripper
	tokens ports.TokenStore
	bus    *rejectionBus
	now    func() time.Time
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request.
	req = req.Clone(req.Context())
	if t.tokens != nil {
		if tok, ok := t.tokens.Get(domainauth.TokenAdmin); ok {
			(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}).SetAuthHeader(req)
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && !isCredentialExchange(req.Context()) {
		if t.tokens != nil {
			t.tokens.Remove(domainauth.TokenAdmin)
		}
		t.bus.publish(ports.AuthRejected{Method: req.Method, Path: req.URL.Path, At: t.now()})
	}
	return resp, nil
}
