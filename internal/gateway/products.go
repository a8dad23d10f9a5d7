package gateway

import (
	"context"

	"github.com/origenapp/origen-core/internal/origen"
)

func (g *Postgres) Products(ctx context.Context) ([]origen.Product, error) {
	rows, err := g.DB.Query(ctx, `SELECT code, name, type, size, min_quantity, price, creation_date
	                              FROM products ORDER BY type, name`)
	if err != nil {
		return nil, asSchemaErr("list products", err)
	}
	defer rows.Close()

	var out []origen.Product
	for rows.Next() {
		var p origen.Product
		if err := rows.Scan(&p.Code, &p.Name, &p.Type, &p.Size, &p.MinQuantity, &p.Price, &p.CreationDate); err != nil {
			return nil, asSchemaErr("scan product", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (g *Postgres) AddProduct(ctx context.Context, p origen.Product) error {
	_, err := g.DB.Exec(ctx, `
		INSERT INTO products(code, name, type, size, min_quantity, price, creation_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (code) DO UPDATE
		SET name=EXCLUDED.name, type=EXCLUDED.type, size=EXCLUDED.size,
		    min_quantity=EXCLUDED.min_quantity, price=EXCLUDED.price
	`, p.Code, p.Name, p.Type, p.Size, p.MinQuantity, p.Price, p.CreationDate)
	return asSchemaErr("add product", err)
}

func (g *Postgres) DeleteProduct(ctx context.Context, code string) error {
	_, err := g.DB.Exec(ctx, `DELETE FROM products WHERE code=$1`, code)
	return asSchemaErr("delete product", err)
}

// UpdateProductPricesByType reprices a whole product type as one
// statement, so the batch either fully applies or not at all.
func (g *Postgres) UpdateProductPricesByType(ctx context.Context, t origen.ProductType, price float64) error {
	_, err := g.DB.Exec(ctx, `UPDATE products SET price=$2 WHERE type=$1`, t, price)
	return asSchemaErr("update prices", err)
}
