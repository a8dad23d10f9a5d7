package gateway

import (
	"context"

	"github.com/origenapp/origen-core/internal/origen"
)

func (g *Postgres) Movements(ctx context.Context) ([]origen.Movement, error) {
	rows, err := g.DB.Query(ctx, `SELECT id, code, date, type, quantity
	                              FROM movements ORDER BY date DESC`)
	if err != nil {
		return nil, asSchemaErr("list movements", err)
	}
	defer rows.Close()

	var out []origen.Movement
	for rows.Next() {
		var m origen.Movement
		if err := rows.Scan(&m.ID, &m.Code, &m.Date, &m.Type, &m.Quantity); err != nil {
			return nil, asSchemaErr("scan movement", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddMovement appends one ledger row. There is deliberately no update or
// delete: the ledger is append-only and stock is always re-derived from it.
func (g *Postgres) AddMovement(ctx context.Context, m origen.Movement) error {
	_, err := g.DB.Exec(ctx, `INSERT INTO movements(id, code, date, type, quantity)
	                          VALUES ($1,$2,$3,$4,$5)`,
		m.ID, m.Code, m.Date, m.Type, m.Quantity)
	return asSchemaErr("add movement", err)
}
