package origen

// StockFor derives the current stock for a product code as the sum of
// Ingreso quantities minus the sum of Venta quantities over the whole
// ledger. No memoization: collections are small enough that a full scan
// per query is fine. The result can go negative; callers decide how to
// present that.
func StockFor(code string, movements []Movement) int {
	stock := 0
	for _, m := range movements {
		if m.Code != code {
			continue
		}
		switch m.Type {
		case MovementIngreso:
			stock += m.Quantity
		case MovementVenta:
			stock -= m.Quantity
		}
	}
	return stock
}

// LowStock returns the products whose derived stock fell under the alert
// threshold or under their own minimum quantity, whichever is stricter.
func LowStock(products []Product, movements []Movement, threshold int) []Product {
	var out []Product
	for _, p := range products {
		stock := StockFor(p.Code, movements)
		if stock < threshold || stock < p.MinQuantity {
			out = append(out, p)
		}
	}
	return out
}
