package factory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim/internal/domain/factory"
)

func TestNewOperation_Validation(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		reqs     map[string]int
		priority int
		field    string
	}{
		{"zero duration", 0, nil, 1, "duration"},
		{"priority below one", time.Hour, nil, 0, "priority"},
		{"non-positive quantity", time.Hour, map[string]int{"Steel": 0}, 1, "materials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := factory.NewOperation("Weld", "Welding", "Welder", tt.duration, tt.reqs, tt.priority, "")

			// Assert
			var invalid *factory.ErrInvalidOperation
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestOperation_RequirementsAreSortedCopies(t *testing.T) {
	// Arrange
	op, err := factory.NewOperation("Custom Fabrication", "Machining", "CNC", 3*time.Hour,
		map[string]int{"Steel": 10, "Aluminum": 5, "Screws": 50}, 1, "")
	require.NoError(t, err)

	// Act
	reqs := op.Requirements()
	reqs[0].Quantity = 999

	// Assert
	assert.Equal(t, []factory.MaterialRequirement{
		{Material: "Aluminum", Quantity: 5},
		{Material: "Screws", Quantity: 50},
		{Material: "Steel", Quantity: 10},
	}, op.Requirements())
}

func TestOperation_Outranks(t *testing.T) {
	urgent, _ := factory.NewOperation("A", "S", "M", time.Hour, nil, 1, "")
	routine, _ := factory.NewOperation("B", "S", "M", time.Hour, nil, 3, "")

	assert.True(t, urgent.Outranks(routine))
	assert.False(t, routine.Outranks(urgent))
	assert.False(t, urgent.Outranks(urgent))
}

func TestOperation_MaterialChecks(t *testing.T) {
	// Arrange
	ledger := factory.NewMaterialLedger(
		newMaterial(t, "Steel", 3, "5.50", 1),
		newMaterial(t, "Aluminum", 10, "8.25", 1),
	)
	op, err := factory.NewOperation("Machine Parts", "Machining", "CNC", 2*time.Hour,
		map[string]int{"Steel": 5, "Aluminum": 2, "Titanium": 1}, 1, "")
	require.NoError(t, err)

	// Act
	missing := op.GetMissingMaterials(ledger)

	// Assert
	assert.False(t, op.AreAllMaterialsAvailable(ledger))
	require.Len(t, missing, 2)
	assert.Equal(t, "Insufficient 'Steel': have 3, need 5 (short by 2)", missing[0].String())
	assert.Equal(t, "Material 'Titanium' not in inventory", missing[1].String())
	assert.Equal(t, "44.00", op.CalculateMaterialCost(ledger).String(), "absent materials contribute nothing")
}

func TestOperation_NoRequirementsAlwaysAvailable(t *testing.T) {
	// Arrange
	op, err := factory.NewOperation("Quality Check", "Quality Control", "Inspection", 30*time.Minute, nil, 2, "")
	require.NoError(t, err)

	// Assert
	assert.True(t, op.AreAllMaterialsAvailable(factory.NewMaterialLedger()))
	assert.True(t, op.CalculateMaterialCost(factory.NewMaterialLedger()).IsZero())
	assert.Empty(t, op.GetMissingMaterials(factory.NewMaterialLedger()))
}
