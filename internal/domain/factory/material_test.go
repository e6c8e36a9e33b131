package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

func newMaterial(t *testing.T, name string, qty int, cost string, minimum int) *factory.Material {
	t.Helper()
	m, err := factory.NewMaterial(name, qty, shared.MustMoney(cost), minimum)
	require.NoError(t, err)
	return m
}

func TestNewMaterial_Validation(t *testing.T) {
	var invalid *factory.ErrInvalidMaterial

	_, err := factory.NewMaterial("Steel", -1, shared.MoneyFromInt(5), 0)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "quantity", invalid.Field)

	_, err = factory.NewMaterial("Steel", 1, shared.MoneyFromInt(5), -2)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "minimum_stock", invalid.Field)
}

func TestMaterial_UseQuantityIsAllOrNothing(t *testing.T) {
	// Arrange
	steel := newMaterial(t, "Steel", 10, "5.50", 2)

	// Act & Assert
	assert.False(t, steel.UseQuantity(11))
	assert.Equal(t, 10, steel.Quantity())

	assert.False(t, steel.UseQuantity(-3))
	assert.Equal(t, 10, steel.Quantity())

	assert.True(t, steel.UseQuantity(10))
	assert.Equal(t, 0, steel.Quantity())
}

func TestMaterial_LowStockBoundaryIsInclusive(t *testing.T) {
	// Arrange
	paint := newMaterial(t, "Paint", 6, "12", 5)

	// Assert
	assert.False(t, paint.IsLowStock())
	paint.UseQuantity(1)
	assert.True(t, paint.IsLowStock(), "quantity == minimum counts as low")
}

func TestMaterial_AddQuantityIgnoresNonPositive(t *testing.T) {
	// Arrange
	screws := newMaterial(t, "Screws", 100, "0.05", 20)

	// Act
	screws.AddQuantity(0)
	screws.AddQuantity(-50)
	screws.AddQuantity(25)

	// Assert
	assert.Equal(t, 125, screws.Quantity())
}

func TestMaterial_ShortfallAndValue(t *testing.T) {
	// Arrange
	aluminum := newMaterial(t, "Aluminum", 3, "8.25", 1)

	// Assert
	assert.Equal(t, 2, aluminum.GetShortfall(5))
	assert.Equal(t, 0, aluminum.GetShortfall(3))
	assert.True(t, aluminum.IsAvailable(3))
	assert.False(t, aluminum.IsAvailable(4))
	assert.Equal(t, "24.75", aluminum.TotalValue().String())
}

func TestMaterialLedger_PutReplacesInPlace(t *testing.T) {
	// Arrange
	steel := newMaterial(t, "Steel", 10, "5", 2)
	paint := newMaterial(t, "Paint", 4, "12", 1)
	ledger := factory.NewMaterialLedger(steel, paint)
	restocked := newMaterial(t, "Steel", 80, "5", 2)

	// Act
	previous := ledger.Put(restocked)

	// Assert
	assert.Same(t, steel, previous)
	all := ledger.All()
	require.Len(t, all, 2)
	assert.Same(t, restocked, all[0], "replacement keeps its position")
	assert.Same(t, paint, all[1])
}

func TestMaterialLedger_RemoveReindexes(t *testing.T) {
	// Arrange
	ledger := factory.NewMaterialLedger(
		newMaterial(t, "Steel", 10, "5", 2),
		newMaterial(t, "Aluminum", 10, "8", 2),
		newMaterial(t, "Paint", 1, "12", 2),
	)

	// Act
	removed := ledger.Remove("Steel")

	// Assert
	assert.True(t, removed)
	assert.False(t, ledger.Remove("Steel"))
	assert.Equal(t, 2, ledger.Len())
	paint, ok := ledger.Get("Paint")
	require.True(t, ok)
	assert.Equal(t, "Paint", paint.Name())
	low := ledger.LowStock()
	require.Len(t, low, 1)
	assert.Equal(t, "Paint", low[0].Name())
}
