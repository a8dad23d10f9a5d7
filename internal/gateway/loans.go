package gateway

import (
	"context"

	"github.com/origenapp/origen-core/internal/origen"
)

func (g *Postgres) Loans(ctx context.Context) ([]origen.Loan, error) {
	// Outstanding first, newest first within each group.
	rows, err := g.DB.Query(ctx, `
		SELECT id, borrower_name, product_type, size, loan_date, return_date, status
		FROM loans ORDER BY status DESC, loan_date DESC`)
	if err != nil {
		return nil, asSchemaErr("list loans", err)
	}
	defer rows.Close()

	var out []origen.Loan
	for rows.Next() {
		var l origen.Loan
		if err := rows.Scan(&l.ID, &l.BorrowerName, &l.ProductType, &l.Size, &l.LoanDate, &l.ReturnDate, &l.Status); err != nil {
			return nil, asSchemaErr("scan loan", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (g *Postgres) AddLoan(ctx context.Context, l origen.Loan) error {
	_, err := g.DB.Exec(ctx, `
		INSERT INTO loans(id, borrower_name, product_type, size, loan_date, return_date, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		l.ID, l.BorrowerName, l.ProductType, l.Size, l.LoanDate, l.ReturnDate, l.Status)
	return asSchemaErr("add loan", err)
}

func (g *Postgres) UpdateLoan(ctx context.Context, l origen.Loan) error {
	_, err := g.DB.Exec(ctx, `
		UPDATE loans
		SET borrower_name=$2, product_type=$3, size=$4, loan_date=$5, return_date=$6, status=$7
		WHERE id=$1`,
		l.ID, l.BorrowerName, l.ProductType, l.Size, l.LoanDate, l.ReturnDate, l.Status)
	return asSchemaErr("update loan", err)
}

func (g *Postgres) DeleteLoan(ctx context.Context, id string) error {
	_, err := g.DB.Exec(ctx, `DELETE FROM loans WHERE id=$1`, id)
	return asSchemaErr("delete loan", err)
}
