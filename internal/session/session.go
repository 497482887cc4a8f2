// Package session holds the signed-in user's identity. The identity itself
// is minted by an external sign-in provider; this package only carries it
// to the components that need it and persists it between CLI invocations.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrNoSession = errors.New("no active session")

type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Label is the name shown in the navigation bar.
func (i Identity) Label() string {
	switch {
	case i.DisplayName != "":
		return i.DisplayName
	case i.Email != "":
		return i.Email
	default:
		return "User"
	}
}

type Store interface {
	Load(ctx context.Context) (Identity, error)
	Save(ctx context.Context, id Identity) error
	Clear(ctx context.Context) error
}

// Session is the in-process view of the current identity. It is passed to
// the HTTP client and the shell instead of living in a global.
type Session struct {
	mu      sync.RWMutex
	store   Store
	current *Identity
}

func New(store Store) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{store: store}
}

// Restore loads a previously saved identity. A missing identity is not an
// error: the session simply stays anonymous.
func (s *Session) Restore(ctx context.Context) error {
	id, err := s.store.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()
	return nil
}

func (s *Session) Login(ctx context.Context, id Identity) error {
	if id.UID == "" {
		return fmt.Errorf("login: uid is required")
	}
	if err := s.store.Save(ctx, id); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()
	return nil
}

func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current returns the identity and whether one is present.
func (s *Session) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Identity{}, false
	}
	return *s.current, true
}

// UserID returns the uid of the current identity or "".
func (s *Session) UserID() string {
	id, ok := s.Current()
	if !ok {
		return ""
	}
	return id.UID
}
