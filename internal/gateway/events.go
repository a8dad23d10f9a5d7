package gateway

import (
	"context"

	"github.com/origenapp/origen-core/internal/origen"
)

func (g *Postgres) Events(ctx context.Context) ([]origen.Event, error) {
	rows, err := g.DB.Query(ctx, `SELECT id, name, link, created_at
	                              FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, asSchemaErr("list events", err)
	}
	defer rows.Close()

	var out []origen.Event
	for rows.Next() {
		var e origen.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Link, &e.CreatedAt); err != nil {
			return nil, asSchemaErr("scan event", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (g *Postgres) AddEvent(ctx context.Context, e origen.Event) error {
	_, err := g.DB.Exec(ctx, `INSERT INTO events(id, name, link, created_at)
	                          VALUES ($1,$2,$3,$4)`,
		e.ID, e.Name, e.Link, e.CreatedAt)
	return asSchemaErr("add event", err)
}

func (g *Postgres) UpdateEvent(ctx context.Context, e origen.Event) error {
	_, err := g.DB.Exec(ctx, `UPDATE events SET name=$2, link=$3 WHERE id=$1`,
		e.ID, e.Name, e.Link)
	return asSchemaErr("update event", err)
}

func (g *Postgres) DeleteEvent(ctx context.Context, id string) error {
	_, err := g.DB.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	return asSchemaErr("delete event", err)
}
