// Package filestore provides a TokenStore persisted to a JSON cookie file for the CLI.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
)

// DefaultFileName is the cookie file written under the config directory.
const DefaultFileName = "cookies.json"

// Options configures a Store.
type Options struct {
	// Path of the cookie file. Empty disables persistence.
	Path string
	// TTL is the lifetime given to a token at write time (default one day).
	TTL time.Duration
	// Now overrides the clock in tests.
	Now    func() time.Time
	Logger *slog.Logger
}

type record struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store keeps tokens in a small JSON document keyed by cookie name.
type Store struct {
	path   string
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu sync.Mutex
}

// DefaultPath returns <user config dir>/recruit-admin/cookies.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "recruit-admin", DefaultFileName), nil
}

// New constructs a Store. It performs no I/O.
func New(opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = domainauth.DefaultTokenTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{path: opts.Path, ttl: opts.TTL, now: opts.Now, logger: opts.Logger}
}

func (s *Store) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Set stores token under kind with a fixed lifetime from now.
func (s *Store) Set(token string, kind domainauth.TokenKind) {
	if s.path == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	jar := s.load()
	jar[kind.Key()] = record{Value: token, ExpiresAt: s.now().Add(s.ttl).UTC()}
	s.save(jar)
}

// Get returns the token for kind when present and unexpired.
func (s *Store) Get(kind domainauth.TokenKind) (string, bool) {
	if s.path == "" {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.load()[kind.Key()]
	if !ok || rec.Value == "" || !s.now().Before(rec.ExpiresAt) {
		return "", false
	}
	return rec.Value, true
}

// Remove deletes the token for kind. Idempotent.
func (s *Store) Remove(kind domainauth.TokenKind) {
	s.remove(kind)
}

// ClearAll removes every namespace.
func (s *Store) ClearAll() {
	s.remove(domainauth.AllTokenKinds()...)
}

func (s *Store) remove(kinds ...domainauth.TokenKind) {
	if s.path == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	jar := s.load()
	changed := false
	for _, kind := range kinds {
		if _, ok := jar[kind.Key()]; ok {
			delete(jar, kind.Key())
			changed = true
		}
	}
	if changed {
		s.save(jar)
	}
}

// load reads the jar, dropping expired entries. A missing or corrupt file is an empty jar.
func (s *Store) load() map[string]record {
	jar := map[string]record{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log().Warn("read token file failed", "path", s.path, "error", err)
		}
		return jar
	}
	if err := json.Unmarshal(data, &jar); err != nil {
		s.log().Warn("token file is corrupt, ignoring", "path", s.path, "error", err)
		return map[string]record{}
	}
	now := s.now()
	for k, rec := range jar {
		if !now.Before(rec.ExpiresAt) {
			delete(jar, k)
		}
	}
	return jar
}

// save writes the jar atomically (temp file + rename) with owner-only permissions.
func (s *Store) save(jar map[string]record) {
	if err := writeAtomic(s.path, jar); err != nil {
		s.log().Warn("write token file failed", "path", s.path, "error", err)
	}
}

func writeAtomic(path string, jar map[string]record) (err error) {
	data, err := json.MarshalIndent(jar, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".cookies-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, os.Remove(tmp.Name()))
		}
	}()
	if err = tmp.Chmod(0o600); err != nil {
		return errors.Join(fmt.Errorf("chmod temp file: %w", err), tmp.Close())
	}
	if _, err = tmp.Write(data); err != nil {
		return errors.Join(fmt.Errorf("write temp file: %w", err), tmp.Close())
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
