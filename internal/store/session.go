package store

import (
	"context"
	"log/slog"

	"github.com/origenapp/origen-core/internal/origen"
	"golang.org/x/crypto/bcrypt"
)

// Login checks the credentials against the gateway and, on success,
// caches the user in memory and in local state so the session survives a
// restart of this instance. A wrong username or password is (false, nil);
// errors are gateway failures only.
func (s *Store) Login(ctx context.Context, username, password string) (bool, error) {
	u, err := s.gw.UserByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return false, nil
	}
	u.Password = ""
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	if s.local != nil {
		if err := s.local.SaveUser(u); err != nil {
			slog.Warn("store: session cache write failed", "error", err)
		}
	}
	return true, nil
}

func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	if s.local != nil {
		if err := s.local.SaveUser(nil); err != nil {
			slog.Warn("store: session cache clear failed", "error", err)
		}
	}
}

// CurrentUser returns the cached session user, nil when logged out.
func (s *Store) CurrentUser() *origen.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UserExists answers "is this username taken"; a missing row is a normal
// false, not an error.
func (s *Store) UserExists(ctx context.Context, username string) (bool, error) {
	u, err := s.gw.UserByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// ValidateUser checks credentials without touching the session.
func (s *Store) ValidateUser(ctx context.Context, username, password string) bool {
	u, err := s.gw.UserByUsername(ctx, username)
	if err != nil || u == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// Theme is the per-instance display preference, independent of the remote
// settings record.
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *Store) SetTheme(theme string) {
	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
	if s.local != nil {
		if err := s.local.SaveTheme(theme); err != nil {
			slog.Warn("store: theme cache write failed", "error", err)
		}
	}
}
