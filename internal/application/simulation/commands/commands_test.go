package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim/internal/application/simulation"
	"github.com/andrescamacho/factorysim/internal/application/simulation/commands"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

var start = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

func newFloor(t *testing.T) (*simulation.Engine, *factory.Operation) {
	t.Helper()
	engine := simulation.NewEngine(shared.NewSimulationClock(start, simulation.DefaultWorkDay))

	worker, err := factory.NewWorker("David", []string{"Quality Control"}, shared.MustMoney("24.00"))
	require.NoError(t, err)
	machine, err := factory.NewMachine("QC-01", "Inspection", shared.MustMoney("20.00"), 30*time.Minute)
	require.NoError(t, err)
	screws, err := factory.NewMaterial("Screws", 10, shared.MustMoney("0.05"), 20)
	require.NoError(t, err)
	engine.AddWorker(worker)
	engine.AddMachine(machine)
	engine.AddMaterial(screws)

	op, err := factory.NewOperation("Quality Check", "Quality Control", "Inspection", 30*time.Minute, nil, 2, "")
	require.NoError(t, err)
	return engine, op
}

func TestExecuteOperationHandler(t *testing.T) {
	// Arrange
	engine, op := newFloor(t)
	handler := commands.NewExecuteOperationHandler(engine)

	// Act
	first, err := handler.Handle(context.Background(), &commands.ExecuteOperationCommand{Operation: op})
	require.NoError(t, err)
	second, err := handler.Handle(context.Background(), &commands.ExecuteOperationCommand{Operation: op})
	require.NoError(t, err)

	// Assert
	assert.True(t, first.(*commands.ExecuteOperationResponse).Result.Success)
	assert.Equal(t, "22.00", first.(*commands.ExecuteOperationResponse).Result.Cost.String())
	rejected := second.(*commands.ExecuteOperationResponse).Result
	assert.False(t, rejected.Success, "a rejected run is data, not an error")
	assert.NotEmpty(t, rejected.FailureReason)
}

func TestExecuteOperationHandler_InvalidRequests(t *testing.T) {
	engine, _ := newFloor(t)
	handler := commands.NewExecuteOperationHandler(engine)

	_, err := handler.Handle(context.Background(), &commands.AdvanceTimeCommand{})
	assert.ErrorContains(t, err, "invalid request type")

	_, err = handler.Handle(context.Background(), &commands.ExecuteOperationCommand{})
	assert.ErrorContains(t, err, "operation is required")
}

func TestAdvanceTimeHandler_CountsCompletions(t *testing.T) {
	// Arrange
	engine, op := newFloor(t)
	require.True(t, engine.ExecuteOperation(op).Success)
	handler := commands.NewAdvanceTimeHandler(engine)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.AdvanceTimeCommand{Duration: 30 * time.Minute})

	// Assert
	require.NoError(t, err)
	advanced := resp.(*commands.AdvanceTimeResponse)
	assert.Equal(t, start.Add(30*time.Minute), advanced.Now)
	assert.Equal(t, 1, advanced.Completed)
}

func TestAdvanceTimeHandler_RejectsNegativeDuration(t *testing.T) {
	engine, _ := newFloor(t)
	handler := commands.NewAdvanceTimeHandler(engine)

	_, err := handler.Handle(context.Background(), &commands.AdvanceTimeCommand{Duration: -time.Minute})

	assert.ErrorContains(t, err, "cannot be negative")
	assert.Equal(t, start, engine.Now())
}

func TestRestockMaterialHandler(t *testing.T) {
	// Arrange
	engine, _ := newFloor(t)
	handler := commands.NewRestockMaterialHandler(engine)

	// Act
	found, err := handler.Handle(context.Background(), &commands.RestockMaterialCommand{Material: "Screws", Quantity: 500})
	require.NoError(t, err)
	missing, err := handler.Handle(context.Background(), &commands.RestockMaterialCommand{Material: "Bolts", Quantity: 5})
	require.NoError(t, err)
	_, zeroErr := handler.Handle(context.Background(), &commands.RestockMaterialCommand{Material: "Screws"})

	// Assert
	assert.True(t, found.(*commands.RestockMaterialResponse).Restocked)
	assert.False(t, missing.(*commands.RestockMaterialResponse).Restocked)
	assert.ErrorContains(t, zeroErr, "must be positive")
	assert.Equal(t, 510, engine.Materials()[0].Quantity)
}
