package gateway

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/origenapp/origen-core/internal/origen"
)

func (g *Postgres) UserByUsername(ctx context.Context, username string) (*origen.User, error) {
	var u origen.User
	err := g.DB.QueryRow(ctx, `SELECT username, password, role, full_name, created_at
	                           FROM users WHERE username=$1`, username).
		Scan(&u.Username, &u.Password, &u.Role, &u.FullName, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, asSchemaErr("get user", err)
	}
	return &u, nil
}

func (g *Postgres) CountByRole(ctx context.Context, role origen.Role) (int, error) {
	var n int
	err := g.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role=$1`, role).Scan(&n)
	if err != nil {
		return 0, asSchemaErr("count by role", err)
	}
	return n, nil
}

func (g *Postgres) InsertUser(ctx context.Context, u origen.User) error {
	_, err := g.DB.Exec(ctx, `INSERT INTO users(username, password, role, full_name, created_at)
	                          VALUES ($1,$2,$3,$4,$5)`,
		u.Username, u.Password, u.Role, u.FullName, u.CreatedAt)
	return asSchemaErr("insert user", err)
}

func (g *Postgres) UpdateUserCredentials(ctx context.Context, username, passwordHash string, role origen.Role) error {
	_, err := g.DB.Exec(ctx, `UPDATE users SET password=$2, role=$3 WHERE username=$1`,
		username, passwordHash, role)
	return asSchemaErr("update user credentials", err)
}

// CheckUsers probes the users table before the account bootstrap runs so
// an unprovisioned database degrades the startup instead of failing it.
func (g *Postgres) CheckUsers(ctx context.Context) error {
	var n int
	err := g.DB.QueryRow(ctx, `SELECT COUNT(*) FROM (SELECT username FROM users LIMIT 1) t`).Scan(&n)
	return asSchemaErr("check users", err)
}
