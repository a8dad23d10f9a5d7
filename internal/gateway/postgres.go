package gateway

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements API over pgx. Schema lives in schema.sql at the
// repo root; the gateway never creates tables itself, a missing schema is
// a deployment condition the store surfaces as degraded.
type Postgres struct{ DB *pgxpool.Pool }

func NewPostgres(db *pgxpool.Pool) *Postgres { return &Postgres{DB: db} }

// pg error codes for a table/type that does not exist.
const (
	codeUndefinedTable  = "42P01"
	codeUndefinedObject = "42704"
)

// asSchemaErr maps "relation does not exist" failures to ErrSchemaMissing
// so callers can tell an unprovisioned database from an ordinary failure.
func asSchemaErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == codeUndefinedTable || pgErr.Code == codeUndefinedObject) {
		return fmt.Errorf("%s: %w: %s", op, ErrSchemaMissing, pgErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}
