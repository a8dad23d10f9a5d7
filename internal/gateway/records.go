package gateway

import (
	"context"

	"github.com/origenapp/origen-core/internal/origen"
)

// Baptism and presentation registrations: the two pending-workflow
// collections.

func (g *Postgres) Baptisms(ctx context.Context) ([]origen.Baptism, error) {
	rows, err := g.DB.Query(ctx, `
		SELECT id, first_name, last_name, full_name, email, phone, pending, created_at, completed_at
		FROM baptisms ORDER BY created_at DESC`)
	if err != nil {
		return nil, asSchemaErr("list baptisms", err)
	}
	defer rows.Close()

	var out []origen.Baptism
	for rows.Next() {
		var b origen.Baptism
		if err := rows.Scan(&b.ID, &b.FirstName, &b.LastName, &b.FullName, &b.Email, &b.Phone,
			&b.Pending, &b.CreatedAt, &b.CompletedAt); err != nil {
			return nil, asSchemaErr("scan baptism", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (g *Postgres) AddBaptism(ctx context.Context, b origen.Baptism) error {
	_, err := g.DB.Exec(ctx, `
		INSERT INTO baptisms(id, first_name, last_name, full_name, email, phone, pending, created_at, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		b.ID, b.FirstName, b.LastName, b.FullName, b.Email, b.Phone, b.Pending, b.CreatedAt, b.CompletedAt)
	return asSchemaErr("add baptism", err)
}

func (g *Postgres) UpdateBaptism(ctx context.Context, b origen.Baptism) error {
	_, err := g.DB.Exec(ctx, `
		UPDATE baptisms
		SET first_name=$2, last_name=$3, full_name=$4, email=$5, phone=$6, pending=$7, completed_at=$8
		WHERE id=$1`,
		b.ID, b.FirstName, b.LastName, b.FullName, b.Email, b.Phone, b.Pending, b.CompletedAt)
	return asSchemaErr("update baptism", err)
}

func (g *Postgres) DeleteBaptism(ctx context.Context, id string) error {
	_, err := g.DB.Exec(ctx, `DELETE FROM baptisms WHERE id=$1`, id)
	return asSchemaErr("delete baptism", err)
}

func (g *Postgres) Presentations(ctx context.Context) ([]origen.Presentation, error) {
	rows, err := g.DB.Query(ctx, `
		SELECT id, child_name, mother_name, father_name, email, phone, pending, scheduled_date, created_at, completed_at
		FROM presentations ORDER BY created_at DESC`)
	if err != nil {
		return nil, asSchemaErr("list presentations", err)
	}
	defer rows.Close()

	var out []origen.Presentation
	for rows.Next() {
		var p origen.Presentation
		if err := rows.Scan(&p.ID, &p.ChildName, &p.MotherName, &p.FatherName, &p.Email, &p.Phone,
			&p.Pending, &p.ScheduledDate, &p.CreatedAt, &p.CompletedAt); err != nil {
			return nil, asSchemaErr("scan presentation", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (g *Postgres) AddPresentation(ctx context.Context, p origen.Presentation) error {
	_, err := g.DB.Exec(ctx, `
		INSERT INTO presentations(id, child_name, mother_name, father_name, email, phone, pending, scheduled_date, created_at, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.ChildName, p.MotherName, p.FatherName, p.Email, p.Phone, p.Pending, p.ScheduledDate, p.CreatedAt, p.CompletedAt)
	return asSchemaErr("add presentation", err)
}

func (g *Postgres) UpdatePresentation(ctx context.Context, p origen.Presentation) error {
	_, err := g.DB.Exec(ctx, `
		UPDATE presentations
		SET child_name=$2, mother_name=$3, father_name=$4, email=$5, phone=$6, pending=$7, scheduled_date=$8, completed_at=$9
		WHERE id=$1`,
		p.ID, p.ChildName, p.MotherName, p.FatherName, p.Email, p.Phone, p.Pending, p.ScheduledDate, p.CompletedAt)
	return asSchemaErr("update presentation", err)
}

func (g *Postgres) DeletePresentation(ctx context.Context, id string) error {
	_, err := g.DB.Exec(ctx, `DELETE FROM presentations WHERE id=$1`, id)
	return asSchemaErr("delete presentation", err)
}
