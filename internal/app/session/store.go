/*
Package session owns the client's identity: who the user is, the opaque
connection token proving it, and the HTTP flows that establish or tear down
both (session introspection, login, registration, logout).

This file defines the Store struct, the single owner of the current identity.
It keeps the identity in memory and mirrors the token into one durable file so
a restarted client can resume without re-prompting login, as long as the
server-side session is still valid.
*/
package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"lobbychat/internal/pkg/logx"
)

// Identity is the authenticated user as the client knows it. The token is
// opaque: the client presents it verbatim and never inspects it.
type Identity struct {
	Username string
	Token    string
}

// Store holds the current identity in memory and persists the token to a
// single file on disk. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	identity  *Identity
	tokenPath string
	logger    zerolog.Logger
}

// NewStore constructs a Store persisting the token at tokenPath.
func NewStore(tokenPath string) *Store {
	return &Store{
		tokenPath: tokenPath,
		logger:    logx.With("session_store"),
	}
}

// Set replaces the current identity and writes the token to durable storage.
// A failed durable write is logged but does not invalidate the in-memory
// identity; the session simply will not survive a restart.
func (s *Store) Set(identity Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = &identity

	if err := os.MkdirAll(filepath.Dir(s.tokenPath), 0o700); err != nil {
		s.logger.Error().Err(err).Str("path", s.tokenPath).Msg("Failed to create token directory")
		return
	}

	if err := os.WriteFile(s.tokenPath, []byte(identity.Token), 0o600); err != nil {
		s.logger.Error().Err(err).Str("path", s.tokenPath).Msg("Failed to persist token")
	}
}

// Get returns the current in-memory identity, if one is known.
func (s *Store) Get() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// Clear removes the identity from memory and deletes the durable token.
// Called on logout and whenever the server declares the session invalid.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil

	if err := os.Remove(s.tokenPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error().Err(err).Str("path", s.tokenPath).Msg("Failed to remove persisted token")
	}
}

// Token resolves the current connection token. It prefers the in-memory
// identity and falls back to durable storage, so the token is usable before
// the bootstrapper has confirmed the session.
func (s *Store) Token() string {
	s.mu.RLock()
	identity := s.identity
	s.mu.RUnlock()

	if identity != nil {
		return identity.Token
	}

	raw, err := os.ReadFile(s.tokenPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", s.tokenPath).Msg("Failed to read persisted token")
		}
		return ""
	}

	return strings.TrimSpace(string(raw))
}

// CurrentUsername returns the username of the current identity, or the empty
// string when anonymous. Display-only; it is never sent as a credential.
func (s *Store) CurrentUsername() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return ""
	}
	return s.identity.Username
}

// Authenticated reports whether an identity is currently known.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.identity != nil
}
