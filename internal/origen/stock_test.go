package origen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockFor(t *testing.T) {
	movements := []Movement{
		{ID: "1", Code: "REM-1", Type: MovementIngreso, Quantity: 10},
		{ID: "2", Code: "REM-1", Type: MovementVenta, Quantity: 3},
		{ID: "3", Code: "BUZ-1", Type: MovementIngreso, Quantity: 4},
	}

	assert.Equal(t, 7, StockFor("REM-1", movements))
	assert.Equal(t, 4, StockFor("BUZ-1", movements))
}

func TestStockForUnknownCode(t *testing.T) {
	assert.Zero(t, StockFor("NOPE", []Movement{{Code: "REM-1", Type: MovementIngreso, Quantity: 5}}))
	assert.Zero(t, StockFor("REM-1", nil))
}

func TestStockForGoesNegative(t *testing.T) {
	// Selling with no prior intake yields a negative stock, no clamping.
	movements := []Movement{
		{ID: "1", Code: "REM-2", Type: MovementVenta, Quantity: 5},
	}
	assert.Equal(t, -5, StockFor("REM-2", movements))
}

func TestLowStock(t *testing.T) {
	products := []Product{
		{Code: "REM-1", Type: ProductRemera, MinQuantity: 2},
		{Code: "REM-2", Type: ProductRemera, MinQuantity: 10},
		{Code: "BUZ-1", Type: ProductBuzo, MinQuantity: 0},
	}
	movements := []Movement{
		{Code: "REM-1", Type: MovementIngreso, Quantity: 20},
		{Code: "REM-2", Type: MovementIngreso, Quantity: 8},
		{Code: "BUZ-1", Type: MovementIngreso, Quantity: 3},
	}

	low := LowStock(products, movements, 5)
	if assert.Len(t, low, 2) {
		assert.Equal(t, "REM-2", low[0].Code) // under its own minimum
		assert.Equal(t, "BUZ-1", low[1].Code) // under the global threshold
	}
}
