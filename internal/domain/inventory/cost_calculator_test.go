package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/internal/domain/inventory"
)

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 uds a 100 + 10 uds a 200 => promedio 150
	got := inventory.CostCalculator(10, decimal.NewFromInt(100), 10, decimal.NewFromInt(200))
	assert.True(t, got.Equal(decimal.NewFromInt(150)), "esperaba 150, obtuve %s", got)
}

func TestCostCalculator_StockCeroTomaCostoEntrada(t *testing.T) {
	got := inventory.CostCalculator(0, decimal.Zero, 5, decimal.NewFromFloat(12.5))
	assert.True(t, got.Equal(decimal.NewFromFloat(12.5)), "esperaba 12.5, obtuve %s", got)
}

func TestCostCalculator_SumaCeroDevuelveCero(t *testing.T) {
	got := inventory.CostCalculator(0, decimal.NewFromInt(100), 0, decimal.NewFromInt(200))
	assert.True(t, got.Equal(decimal.Zero))
}

func TestCostCalculator_EntradaDominante(t *testing.T) {
	// 1 ud a 10 + 99 uds a 20 => 19.9
	got := inventory.CostCalculator(1, decimal.NewFromInt(10), 99, decimal.NewFromInt(20))
	assert.True(t, got.Equal(decimal.NewFromFloat(19.9)), "esperaba 19.9, obtuve %s", got)
}
