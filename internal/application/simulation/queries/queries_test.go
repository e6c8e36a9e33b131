package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim/internal/application/simulation"
	"github.com/andrescamacho/factorysim/internal/application/simulation/queries"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

func newFloor(t *testing.T) (*simulation.Engine, []*factory.Operation) {
	t.Helper()
	engine := simulation.NewEngine(shared.NewSimulationClock(
		time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), simulation.DefaultWorkDay))

	worker, err := factory.NewWorker("Bob", []string{"Assembly"}, shared.MustMoney("22.50"))
	require.NoError(t, err)
	machine, err := factory.NewMachine("Assembly-01", "Assembly", shared.MustMoney("30.00"), time.Hour)
	require.NoError(t, err)
	screws, err := factory.NewMaterial("Screws", 1000, shared.MustMoney("0.05"), 200)
	require.NoError(t, err)
	engine.AddWorker(worker)
	engine.AddMachine(machine)
	engine.AddMaterial(screws)

	assemble, err := factory.NewOperation("Assemble Product", "Assembly", "Assembly", time.Hour,
		map[string]int{"Screws": 20}, 2, "")
	require.NoError(t, err)
	paint, err := factory.NewOperation("Paint Product", "Painting", "Painting", 45*time.Minute,
		map[string]int{"Paint": 2}, 3, "")
	require.NoError(t, err)
	return engine, []*factory.Operation{assemble, nil, paint}
}

func TestListOperationsHandler(t *testing.T) {
	// Arrange
	engine, catalog := newFloor(t)
	handler := queries.NewListOperationsHandler(engine)

	// Act
	all, err := handler.Handle(context.Background(), &queries.ListOperationsQuery{Operations: catalog})
	require.NoError(t, err)
	eligible, err := handler.Handle(context.Background(), &queries.ListOperationsQuery{Operations: catalog, EligibleOnly: true})
	require.NoError(t, err)

	// Assert
	listed := all.(*queries.ListOperationsResponse).Operations
	require.Len(t, listed, 2, "nil entries are skipped")
	assert.Equal(t, "Assemble Product", listed[0].Operation.Name())
	assert.True(t, listed[0].CanExecute)
	// labour 22.50 + machine 30 + screws 1.00
	assert.Equal(t, "53.50", listed[0].EstimatedCost.String())
	assert.False(t, listed[1].CanExecute)
	assert.True(t, listed[1].EstimatedCost.IsZero())

	only := eligible.(*queries.ListOperationsResponse).Operations
	require.Len(t, only, 1)
	assert.Equal(t, "Assemble Product", only[0].Operation.Name())
}

func TestGetStatusHandler(t *testing.T) {
	// Arrange
	engine, _ := newFloor(t)
	handler := queries.NewGetStatusHandler(engine)

	// Act
	bare, err := handler.Handle(context.Background(), &queries.GetStatusQuery{})
	require.NoError(t, err)
	detailed, err := handler.Handle(context.Background(), &queries.GetStatusQuery{IncludeResources: true, IncludeMaterials: true})
	require.NoError(t, err)

	// Assert
	plain := bare.(*queries.GetStatusResponse)
	assert.Equal(t, 1, plain.Status.TotalWorkers)
	assert.Nil(t, plain.Resources)
	assert.Nil(t, plain.Materials)

	full := detailed.(*queries.GetStatusResponse)
	assert.Len(t, full.Resources, 2)
	require.Len(t, full.Materials, 1)
	assert.Equal(t, "50.00", full.Materials[0].TotalValue.String())
}

func TestQueryHandlers_InvalidRequestType(t *testing.T) {
	engine, _ := newFloor(t)

	_, err := queries.NewGetStatusHandler(engine).Handle(context.Background(), &queries.ListOperationsQuery{})
	assert.ErrorContains(t, err, "invalid request type")

	_, err = queries.NewListOperationsHandler(engine).Handle(context.Background(), &queries.GetStatusQuery{})
	assert.ErrorContains(t, err, "invalid request type")
}
