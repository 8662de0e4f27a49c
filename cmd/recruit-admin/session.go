package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/target/recruit-admin/internal/adapters/filestore"
	"github.com/target/recruit-admin/internal/apiclient"
	"github.com/target/recruit-admin/internal/bootstrap"
	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	apperrors "github.com/target/recruit-admin/internal/errors"
	"github.com/target/recruit-admin/internal/guard"
	"github.com/target/recruit-admin/internal/service"
)

// Notices printed by the terminal navigator and session checks.
const (
	msgSessionExpired = "session expired, run recruit-admin login"
	msgNotLoggedIn    = "not logged in, run recruit-admin login"
)

var (
	errSessionExpired = errors.New(msgSessionExpired)
	errNotLoggedIn    = errors.New(msgNotLoggedIn)
)

// terminalNavigator stands in for a browser hard navigation: it tells the operator
// the session is gone and remembers that it happened.
type terminalNavigator struct {
	w     io.Writer
	fired atomic.Bool
}

func (n *terminalNavigator) HardNavigate(string) {
	if n.fired.CompareAndSwap(false, true) {
		fmt.Fprintln(n.w, msgSessionExpired)
	}
}

// cliSession is one command's view of the persisted admin session.
type cliSession struct {
	store   *filestore.Store
	backend *apiclient.Backend
	manager *service.SessionManager
	nav     *terminalNavigator
}

// openSession builds the token file store, backend client and session manager.
// It does not contact the backend.
func (a *app) openSession() (*cliSession, error) {
	path := a.cfg.Session.CookieFile
	if path == "" {
		p, err := filestore.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	store := filestore.New(filestore.Options{Path: path, TTL: a.cfg.Session.TokenTTL, Logger: a.logger})

	client, err := bootstrap.NewBackendClient(a.cfg.Backend, nil, a.logger)
	if err != nil {
		return nil, err
	}
	backend := apiclient.NewBackend(client.WithTokens(store))
	nav := &terminalNavigator{w: a.errOut}
	manager := service.NewSessionManager(service.SessionManagerOptions{
		Tokens:    store,
		API:       backend,
		Navigator: nav,
		Logger:    a.logger,
		LoginPath: a.cfg.Session.LoginPath,
	})
	return &cliSession{store: store, backend: backend, manager: manager, nav: nav}, nil
}

func (s *cliSession) Close() { s.manager.Close() }

// require bootstraps the session and applies the route guard to it.
func (s *cliSession) require(ctx context.Context, req guard.Requirement) (domainauth.Principal, error) {
	snap := s.manager.Bootstrap(ctx)
	out := guard.Decide(snap, req)
	switch {
	case out.Allowed():
		return *snap.Principal, nil
	case !snap.IsAuthenticated:
		if s.nav.fired.Load() {
			return domainauth.Principal{}, errSessionExpired
		}
		return domainauth.Principal{}, errNotLoggedIn
	default:
		return domainauth.Principal{}, errors.New(out.Warning)
	}
}

// result folds a forced logout into a single, actionable error.
func (s *cliSession) result(err error) error {
	if err == nil {
		return nil
	}
	if s.nav.fired.Load() {
		return errSessionExpired
	}
	if fields := apperrors.GetFields(err); len(fields) > 0 {
		return fieldsError(apperrors.Message(err, err.Error()), fields)
	}
	return err
}

// withSession runs fn inside a bootstrapped, guarded session.
func (a *app) withSession(ctx context.Context, req guard.Requirement, fn func(*cliSession, domainauth.Principal) error) error {
	sess, err := a.openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	principal, err := sess.require(ctx, req)
	if err != nil {
		return err
	}
	return sess.result(fn(sess, principal))
}
