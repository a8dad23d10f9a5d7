package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/origenapp/origen-core/internal/origen"
	"golang.org/x/crypto/bcrypt"
)

// FixedAccount is a service account the system guarantees to exist with a
// specific role and password on every startup.
type FixedAccount struct {
	Username string
	Password string
	Role     origen.Role
	FullName string
}

// DefaultFixedAccounts are the two seeded service accounts.
func DefaultFixedAccounts() []FixedAccount {
	return []FixedAccount{
		{Username: "Punto", Password: "puntoinformacion32", Role: origen.RoleAdmin, FullName: "Punto de Información"},
		{Username: "Info", Password: "info32", Role: origen.RoleModerator, FullName: "Info (Acceso Limitado)"},
	}
}

// EnsureFixedAccounts converges the fixed accounts: absent ones are
// created, present ones whose stored hash no longer matches the desired
// password get password and role rewritten in place. Running it any
// number of times never duplicates an account. An unreachable users
// table only logs — the rest of the startup continues and the degraded
// flag surfaces the condition elsewhere.
func (s *Store) EnsureFixedAccounts(ctx context.Context, accounts []FixedAccount) error {
	if err := s.gw.CheckUsers(ctx); err != nil {
		slog.Warn("store: users table unreachable, skipping account bootstrap", "error", err)
		return nil
	}

	for _, acc := range accounts {
		existing, err := s.gw.UserByUsername(ctx, acc.Username)
		if err != nil {
			slog.Warn("store: account lookup failed", "username", acc.Username, "error", err)
			continue
		}
		if existing == nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			u := origen.User{
				Username:  acc.Username,
				Password:  string(hash),
				Role:      acc.Role,
				FullName:  acc.FullName,
				CreatedAt: time.Now().UTC(),
			}
			if err := s.gw.InsertUser(ctx, u); err != nil {
				slog.Warn("store: account create failed", "username", acc.Username, "error", err)
			}
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(existing.Password), []byte(acc.Password)) == nil && existing.Role == acc.Role {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := s.gw.UpdateUserCredentials(ctx, acc.Username, string(hash), acc.Role); err != nil {
			slog.Warn("store: account update failed", "username", acc.Username, "error", err)
		}
	}
	return nil
}
