package factory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

func newMachine(t *testing.T, name, machineType, cost string) *factory.Machine {
	t.Helper()
	m, err := factory.NewMachine(name, machineType, shared.MustMoney(cost), time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewMachine_Validation(t *testing.T) {
	var invalid *factory.ErrInvalidResource

	_, err := factory.NewMachine("CNC-01", "", shared.MoneyFromInt(45), time.Hour)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "type", invalid.Field)

	_, err = factory.NewMachine("CNC-01", "CNC", shared.MoneyFromInt(45), -time.Minute)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "default_processing_time", invalid.Field)
}

func TestMachine_CanPerformIgnoresCase(t *testing.T) {
	// Arrange
	m := newMachine(t, "Paint-01", "Painting", "35")

	// Assert
	assert.True(t, m.CanPerform("painting"))
	assert.False(t, m.CanPerform("CNC"))
}

func TestMachine_NeverOnBreak(t *testing.T) {
	// Arrange
	m := newMachine(t, "CNC-01", "CNC", "45")

	// Assert
	assert.True(t, m.IsAvailable(at(12, 15)))
	assert.Equal(t, factory.ResourceStateIdle, m.State(at(12, 15)))
	assert.Equal(t, factory.IdleLabel, m.CurrentOperation())
}

func TestMachine_OperationLifecycle(t *testing.T) {
	// Arrange
	m := newMachine(t, "CNC-01", "CNC", "45")

	// Act
	m.StartOperation("Machine Parts", 2*time.Hour, at(8, 0))

	// Assert
	assert.False(t, m.IsAvailable(at(9, 0)))
	assert.Equal(t, "Machine Parts", m.CurrentOperation())
	assert.Equal(t, "Busy (60m left)", m.StatusLabel(at(9, 0)))
	assert.False(t, m.UpdateStatus(at(9, 59)))
	assert.True(t, m.UpdateStatus(at(10, 0)))
	assert.Equal(t, factory.IdleLabel, m.CurrentOperation())
}

func TestMachine_CalculateOperatingCost(t *testing.T) {
	// Arrange
	m := newMachine(t, "CNC-01", "CNC", "45")

	// Act
	cost := m.CalculateOperatingCost(90 * time.Minute)

	// Assert
	assert.True(t, cost.Equal(shared.MustMoney("67.5")))
}
