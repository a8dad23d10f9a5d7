package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/origenapp/origen-core/internal/origen"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists = errors.New("username already registered")
	// ErrAdminLimit: the deployment allows a single ADMIN account.
	ErrAdminLimit = errors.New("an administrator already exists")
)

// Register creates a new account. Duplicate usernames and a second ADMIN
// are rejected as precondition violations before anything is written.
func (s *Store) Register(ctx context.Context, u origen.User, password string) error {
	existing, err := s.gw.UserByUsername(ctx, u.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", ErrUserExists, u.Username)
	}
	if u.Role == origen.RoleAdmin {
		n, err := s.gw.CountByRole(ctx, origen.RoleAdmin)
		if err != nil {
			return err
		}
		if n >= 1 {
			return ErrAdminLimit
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	return s.gw.InsertUser(ctx, u)
}
