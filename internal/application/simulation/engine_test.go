package simulation_test

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim/internal/application/simulation"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

var start = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

// recorder collects every notification in emission order
type recorder struct {
	mu     sync.Mutex
	events []factory.Event
}

func (r *recorder) Publish(event factory.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) ofType(t factory.EventType) []factory.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []factory.Event
	for _, e := range r.events {
		if e.GetType() == t {
			out = append(out, e)
		}
	}
	return out
}

func newEngine(t *testing.T, at time.Time) (*simulation.Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	clock := shared.NewSimulationClock(at, simulation.DefaultWorkDay)
	return simulation.NewEngine(clock, simulation.WithEventSink(rec)), rec
}

func addWorker(t *testing.T, e *simulation.Engine, name, rate string, skills []string, breaks ...string) *factory.Worker {
	t.Helper()
	windows := make([]shared.TimeWindow, 0, len(breaks))
	for _, b := range breaks {
		w, err := shared.ParseTimeWindow(b)
		require.NoError(t, err)
		windows = append(windows, w)
	}
	w, err := factory.NewWorker(name, skills, shared.MustMoney(rate), windows...)
	require.NoError(t, err)
	require.True(t, e.AddWorker(w))
	return w
}

func addMachine(t *testing.T, e *simulation.Engine, name, machineType, cost string) *factory.Machine {
	t.Helper()
	m, err := factory.NewMachine(name, machineType, shared.MustMoney(cost), time.Hour)
	require.NoError(t, err)
	require.True(t, e.AddMachine(m))
	return m
}

func addMaterial(t *testing.T, e *simulation.Engine, name string, qty int, cost string, minimum int) *factory.Material {
	t.Helper()
	m, err := factory.NewMaterial(name, qty, shared.MustMoney(cost), minimum)
	require.NoError(t, err)
	e.AddMaterial(m)
	return m
}

func machineParts(t *testing.T) *factory.Operation {
	t.Helper()
	op, err := factory.NewOperation("Machine Parts", "Machining", "CNC", 2*time.Hour,
		map[string]int{"Steel": 5, "Aluminum": 2}, 1, "Precision machining")
	require.NoError(t, err)
	return op
}

func machiningFloor(t *testing.T) (*simulation.Engine, *recorder) {
	t.Helper()
	e, rec := newEngine(t, start)
	addWorker(t, e, "Alice", "25.00", []string{"Machining", "Quality Control"}, "12:00-12:30")
	addMachine(t, e, "CNC-01", "CNC", "45.00")
	addMaterial(t, e, "Steel", 100, "5.50", 20)
	addMaterial(t, e, "Aluminum", 50, "8.25", 10)
	return e, rec
}

func TestEngine_ExecuteOperationCommitsRun(t *testing.T) {
	// Arrange
	e, rec := machiningFloor(t)

	// Act
	result := e.ExecuteOperation(machineParts(t))

	// Assert
	require.True(t, result.Success, result.FailureReason)
	assert.Equal(t, "Alice", result.AssignedWorker)
	assert.Equal(t, "CNC-01", result.AssignedMachine)
	assert.NotEmpty(t, result.ExecutionID)
	assert.Equal(t, start, result.StartTime)
	assert.Equal(t, start.Add(2*time.Hour), result.EstimatedEndTime)
	// labour 50 + machine 90 + steel 27.50 + aluminum 16.50
	assert.Equal(t, "184.00", result.Cost.String())

	materials := e.Materials()
	assert.Equal(t, 95, materials[0].Quantity)
	assert.Equal(t, 48, materials[1].Quantity)

	status := e.GetStatus()
	assert.Equal(t, 1, status.BusyWorkers)
	assert.Equal(t, 1, status.BusyMachines)
	assert.Equal(t, 1, status.OperationsInProgress)
	assert.True(t, status.TotalCost.Equal(result.Cost))

	started := rec.ofType(factory.OperationStartedEvent)
	require.Len(t, started, 1)
	exec := started[0].(factory.OperationStarted).Execution
	assert.Equal(t, result.ExecutionID, exec.ID)
	assert.Equal(t, "Machine Parts", exec.Operation)

	active := e.ActiveExecutions()
	require.Len(t, active, 1)
	assert.Equal(t, result.ExecutionID, active[0].ID)
}

func TestEngine_ExecuteOperationReportsEveryBlockingCause(t *testing.T) {
	// Arrange
	e, rec := newEngine(t, start)
	addWorker(t, e, "Bob", "22.50", []string{"Assembly"})
	addMaterial(t, e, "Steel", 3, "5.50", 1)

	// Act
	result := e.ExecuteOperation(machineParts(t))

	// Assert
	assert.False(t, result.Success)
	assert.Equal(t,
		"No workers with skill 'Machining'; No machines of type 'CNC'; "+
			"Material 'Aluminum' not in inventory; Insufficient 'Steel': have 3, need 5 (short by 2)",
		result.FailureReason)
	assert.Empty(t, result.ExecutionID)
	assert.Equal(t, 3, e.Materials()[0].Quantity, "nothing is consumed on failure")
	assert.True(t, e.GetStatus().TotalCost.IsZero())

	alerts := rec.ofType(factory.AlertEvent)
	require.Len(t, alerts, 1)
	alert := alerts[0].(factory.Alert)
	assert.Equal(t, factory.AlertLevelWarning, alert.Level)
	assert.Contains(t, alert.Message, "Cannot execute Machine Parts:")
}

func TestEngine_BusyResourcesBlockSecondRun(t *testing.T) {
	// Arrange
	e, _ := machiningFloor(t)
	op := machineParts(t)
	require.True(t, e.ExecuteOperation(op).Success)

	// Act
	second := e.ExecuteOperation(op)

	// Assert
	assert.False(t, second.Success)
	assert.Equal(t, "All workers with skill 'Machining' are busy or on break; All 'CNC' machines are busy", second.FailureReason)
	assert.False(t, e.CanExecuteOperation(op))
}

func TestEngine_WorkerOnBreakIsNotAssigned(t *testing.T) {
	// Arrange
	e, _ := machiningFloor(t)
	e.AdvanceTime(4*time.Hour + 10*time.Minute) // 12:10

	// Act
	result := e.ExecuteOperation(machineParts(t))

	// Assert
	assert.False(t, result.Success)
	assert.Equal(t, "All workers with skill 'Machining' are busy or on break", result.FailureReason)
	assert.Equal(t, 1, e.GetStatus().WorkersOnBreak)
}

func TestEngine_FirstMatchInInsertionOrder(t *testing.T) {
	// Arrange
	e, _ := machiningFloor(t)
	addWorker(t, e, "Carol", "27.00", []string{"Machining"})
	addMachine(t, e, "CNC-02", "CNC", "50.00")
	op := machineParts(t)

	// Act
	first := e.ExecuteOperation(op)
	second := e.ExecuteOperation(op)

	// Assert
	assert.Equal(t, "Alice", first.AssignedWorker)
	assert.Equal(t, "CNC-01", first.AssignedMachine)
	assert.Equal(t, "Carol", second.AssignedWorker)
	assert.Equal(t, "CNC-02", second.AssignedMachine)
}

func TestEngine_LowStockFiresOnCrossingOnly(t *testing.T) {
	// Arrange
	e, rec := newEngine(t, start)
	addWorker(t, e, "Bob", "22.50", []string{"Painting"})
	addWorker(t, e, "David", "24.00", []string{"Painting"})
	addMachine(t, e, "Paint-01", "Painting", "35.00")
	addMachine(t, e, "Paint-02", "Painting", "35.00")
	addMaterial(t, e, "Paint", 8, "12.00", 5)
	op, err := factory.NewOperation("Paint Product", "Painting", "Painting", 45*time.Minute,
		map[string]int{"Paint": 2}, 3, "")
	require.NoError(t, err)

	// Act
	first := e.ExecuteOperation(op)  // 8 -> 6
	second := e.ExecuteOperation(op) // 6 -> 4, crosses
	e.AdvanceTime(time.Hour)
	third := e.ExecuteOperation(op) // 4 -> 2, already low

	// Assert
	require.True(t, first.Success)
	require.True(t, second.Success)
	require.True(t, third.Success)
	low := rec.ofType(factory.MaterialLowStockEvent)
	require.Len(t, low, 1)
	event := low[0].(factory.MaterialLowStock)
	assert.Equal(t, "Paint", event.Material)
	assert.Equal(t, 4, event.Quantity)
	assert.Equal(t, 5, event.MinimumStock)
	assert.Equal(t, 1, e.GetStatus().LowStockMaterials)
}

func TestEngine_LowStockFollowsStartedEvent(t *testing.T) {
	// Arrange
	e, rec := machiningFloor(t)
	addMaterial(t, e, "Steel", 24, "5.50", 20)

	// Act
	require.True(t, e.ExecuteOperation(machineParts(t)).Success)

	// Assert
	require.Len(t, rec.events, 2)
	assert.Equal(t, factory.OperationStartedEvent, rec.events[0].GetType())
	assert.Equal(t, factory.MaterialLowStockEvent, rec.events[1].GetType())
}

func TestEngine_AddMaterial(t *testing.T) {
	// Arrange
	e, rec := newEngine(t, start)
	low := addMaterial(t, e, "Paint", 2, "12.00", 5)

	// Act
	sameAgain := e.AddMaterial(low)
	replacement, err := factory.NewMaterial("Paint", 1, shared.MustMoney("12.00"), 5)
	require.NoError(t, err)
	replaced := e.AddMaterial(replacement)

	// Assert
	assert.False(t, sameAgain, "re-adding the stored entry is a no-op")
	assert.True(t, replaced)
	assert.Len(t, rec.ofType(factory.MaterialLowStockEvent), 1, "low replacing low does not re-fire")
	assert.Equal(t, 1, e.Materials()[0].Quantity)
}

func TestEngine_AdvanceTimeCompletesOperations(t *testing.T) {
	// Arrange
	e, rec := machiningFloor(t)
	result := e.ExecuteOperation(machineParts(t))
	require.True(t, result.Success)

	// Act & Assert
	e.AdvanceTime(time.Hour + 59*time.Minute)
	assert.Empty(t, rec.ofType(factory.OperationCompletedEvent))
	assert.Equal(t, 1, e.GetStatus().OperationsInProgress)

	e.AdvanceTime(time.Minute)
	completed := rec.ofType(factory.OperationCompletedEvent)
	require.Len(t, completed, 1)
	event := completed[0].(factory.OperationCompleted)
	assert.False(t, event.Reconstructed)
	assert.Equal(t, result.ExecutionID, event.Execution.ID)
	assert.Equal(t, "CNC-01", event.Execution.Machine)
	assert.Equal(t, start.Add(2*time.Hour), event.OccurredAt)

	status := e.GetStatus()
	assert.Equal(t, 1, status.OperationsCompleted)
	assert.Equal(t, 0, status.OperationsInProgress)
	assert.Equal(t, 0, status.BusyWorkers)
	assert.Equal(t, 0, status.BusyMachines)
	assert.Empty(t, e.ActiveExecutions())

	e.AdvanceTime(time.Hour)
	assert.Len(t, rec.ofType(factory.OperationCompletedEvent), 1, "completion is reported once")
}

func TestEngine_CompletionWithoutRecordIsReconstructed(t *testing.T) {
	// Arrange
	e, rec := machiningFloor(t)
	w := addWorker(t, e, "Eve", "20.00", []string{"Assembly"})
	w.StartTask("Manual Rework", 30*time.Minute, e.Now())

	// Act
	e.AdvanceTime(30 * time.Minute)

	// Assert
	completed := rec.ofType(factory.OperationCompletedEvent)
	require.Len(t, completed, 1)
	event := completed[0].(factory.OperationCompleted)
	assert.True(t, event.Reconstructed)
	assert.Equal(t, "Manual Rework", event.Execution.Operation)
	assert.Equal(t, "Eve", event.Execution.Worker)
	assert.Empty(t, event.Execution.ID)

	status := e.GetStatus()
	assert.Equal(t, 1, status.OperationsCompleted)
	assert.Equal(t, 0, status.OperationsInProgress, "never drops below zero")
}

func TestEngine_RemoveWorkerMidTask(t *testing.T) {
	// Arrange
	e, rec := machiningFloor(t)
	require.True(t, e.ExecuteOperation(machineParts(t)).Success)

	// Act
	removed := e.RemoveWorker("Alice")

	// Assert
	assert.True(t, removed)
	assert.False(t, e.RemoveWorker("Alice"))
	assert.Equal(t, 0, e.GetStatus().OperationsInProgress)
	assert.Empty(t, e.ActiveExecutions())

	alerts := rec.ofType(factory.AlertEvent)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Worker Alice removed while running Machine Parts", alerts[0].(factory.Alert).Message)
}

func TestEngine_DuplicateNamesAreIgnored(t *testing.T) {
	// Arrange
	e, _ := machiningFloor(t)
	dup, err := factory.NewWorker("Alice", []string{"Painting"}, shared.MoneyFromInt(10))
	require.NoError(t, err)
	dupMachine, err := factory.NewMachine("CNC-01", "Lathe", shared.MoneyFromInt(10), 0)
	require.NoError(t, err)

	// Assert
	assert.False(t, e.AddWorker(dup))
	assert.False(t, e.AddMachine(dupMachine))
	assert.False(t, e.AddWorker(nil))
	assert.Equal(t, 1, e.GetStatus().TotalWorkers)
	assert.True(t, e.RemoveMachine("CNC-01"))
	assert.False(t, e.RemoveMachine("CNC-01"))
	assert.True(t, e.RemoveMaterial("Steel"))
	assert.Equal(t, 1, e.GetStatus().TotalMaterials)
}

func TestEngine_Efficiency(t *testing.T) {
	// Arrange
	empty, _ := newEngine(t, start)
	e, _ := machiningFloor(t)
	addWorker(t, e, "Bob", "22.50", []string{"Assembly"})
	addMachine(t, e, "Assembly-01", "Assembly", "30.00")

	// Act
	require.True(t, e.ExecuteOperation(machineParts(t)).Success)

	// Assert
	assert.True(t, empty.Efficiency().IsZero())
	assert.True(t, e.Efficiency().Equal(decimal.NewFromInt(50)), "got %s", e.Efficiency())
	assert.True(t, e.GetStatus().Efficiency.Equal(decimal.NewFromInt(50)))
}

func TestEngine_RestockMaterial(t *testing.T) {
	// Arrange
	e, _ := machiningFloor(t)

	// Act & Assert
	assert.True(t, e.RestockMaterial("Steel", 25))
	assert.Equal(t, 125, e.Materials()[0].Quantity)
	assert.False(t, e.RestockMaterial("Titanium", 5))
}

func TestEngine_EstimateCostHasNoSideEffects(t *testing.T) {
	// Arrange
	e, rec := machiningFloor(t)

	// Act
	cost, ok := e.EstimateCost(machineParts(t))

	// Assert
	assert.True(t, ok)
	assert.Equal(t, "184.00", cost.String())
	assert.Empty(t, rec.events)
	assert.Equal(t, 0, e.GetStatus().BusyWorkers)
	assert.Equal(t, 100, e.Materials()[0].Quantity)
}

func TestEngine_StatusAndResources(t *testing.T) {
	// Arrange
	e, _ := machiningFloor(t)
	require.True(t, e.ExecuteOperation(machineParts(t)).Success)
	e.AdvanceTime(30 * time.Minute)

	// Act
	status := e.GetStatus()
	resources := e.Resources()

	// Assert
	assert.True(t, status.IsWorkingHours)
	assert.Equal(t, start.Add(30*time.Minute), status.Timestamp)
	require.Len(t, resources, 2)
	assert.Equal(t, "worker", resources[0].Kind)
	assert.Equal(t, "Busy (90m left)", resources[0].StatusLabel)
	assert.Equal(t, "Machine Parts", resources[0].Task)
	assert.Equal(t, "machine", resources[1].Kind)
	assert.Equal(t, []string{"CNC"}, resources[1].Capability)
	require.NotNil(t, resources[1].BusyUntil)
	assert.Equal(t, start.Add(2*time.Hour), *resources[1].BusyUntil)
}

func TestEngine_ConcurrentExecutionsClaimResourcesOnce(t *testing.T) {
	// Arrange
	e, _ := machiningFloor(t)
	op := machineParts(t)
	var wg sync.WaitGroup
	results := make(chan simulation.ExecutionResult, 20)

	// Act
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- e.ExecuteOperation(op)
		}()
	}
	wg.Wait()
	close(results)

	// Assert
	succeeded := 0
	for r := range results {
		if r.Success {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 95, e.Materials()[0].Quantity)
}

func TestEngine_NilOperation(t *testing.T) {
	e, _ := machiningFloor(t)

	assert.False(t, e.ExecuteOperation(nil).Success)
	assert.False(t, e.CanExecuteOperation(nil))
	_, ok := e.EstimateCost(nil)
	assert.False(t, ok)
}

func TestEngine_ThirtyMinuteRunCostsHalfOfEachRate(t *testing.T) {
	// Arrange
	e, _ := newEngine(t, start)
	addWorker(t, e, "A", "22.50", []string{"Assembly"})
	addMachine(t, e, "M", "Assembly", "30.00")
	op, err := factory.NewOperation("Fit", "Assembly", "Assembly", 30*time.Minute, nil, 1, "")
	require.NoError(t, err)

	// Act
	result := e.ExecuteOperation(op)

	// Assert
	require.True(t, result.Success)
	assert.Equal(t, "A", result.AssignedWorker)
	assert.Equal(t, "M", result.AssignedMachine)
	assert.True(t, result.Cost.Equal(shared.MustMoney("26.25")), "got %s", result.Cost.Decimal())
}

func TestEngine_CanExecuteAgreesWithExecute(t *testing.T) {
	// Arrange
	e, _ := machiningFloor(t)
	addWorker(t, e, "Carol", "27.00", []string{"Machining"}, "10:00-10:15")
	op := machineParts(t)

	// Act & Assert: walk the floor through busy, break and shortage states
	for step := 0; step < 40; step++ {
		can := e.CanExecuteOperation(op)
		result := e.ExecuteOperation(op)
		assert.Equal(t, can, result.Success, "step %d at %s: %s", step, e.Now().Format("15:04"), result.FailureReason)
		e.AdvanceTime(25 * time.Minute)
	}
}

func TestEngine_CompletionRestoresInProgressCount(t *testing.T) {
	// Arrange
	e, rec := machiningFloor(t)
	before := e.GetStatus().OperationsInProgress
	require.True(t, e.ExecuteOperation(machineParts(t)).Success)

	// Act
	e.AdvanceTime(90 * time.Minute)
	e.AdvanceTime(45 * time.Minute)

	// Assert
	completed := rec.ofType(factory.OperationCompletedEvent)
	require.Len(t, completed, 1)
	assert.Equal(t, "Alice", completed[0].(factory.OperationCompleted).Execution.Worker)
	assert.Equal(t, before, e.GetStatus().OperationsInProgress)
	assert.Equal(t, factory.ResourceStateIdle, e.Resources()[0].State)
}

func TestEngine_OperationNamedLikeStatusLabelCompletes(t *testing.T) {
	for _, name := range []string{factory.IdleLabel, factory.OnBreakLabel} {
		t.Run(name, func(t *testing.T) {
			// Arrange
			e, rec := newEngine(t, start)
			addWorker(t, e, "A", "20.00", []string{"Assembly"})
			addMachine(t, e, "M", "Bench", "10.00")
			op, err := factory.NewOperation(name, "Assembly", "Bench", 30*time.Minute, nil, 1, "")
			require.NoError(t, err)
			require.True(t, e.ExecuteOperation(op).Success)

			// Act
			e.AdvanceTime(time.Hour)

			// Assert
			completed := rec.ofType(factory.OperationCompletedEvent)
			require.Len(t, completed, 1)
			event := completed[0].(factory.OperationCompleted)
			assert.False(t, event.Reconstructed)
			assert.Equal(t, name, event.Execution.Operation)

			status := e.GetStatus()
			assert.Equal(t, 1, status.OperationsCompleted)
			assert.Equal(t, 0, status.OperationsInProgress)
			assert.Empty(t, e.ActiveExecutions())
		})
	}
}

func TestEngine_ReaddedWorkerDoesNotReleaseAnotherRun(t *testing.T) {
	// Arrange
	e, rec := newEngine(t, start)
	a := addWorker(t, e, "A", "20.00", []string{"Assembly"})
	addWorker(t, e, "B", "20.00", []string{"Assembly"})
	addMachine(t, e, "M1", "Bench", "10.00")
	addMachine(t, e, "M2", "Bench", "10.00")
	short, err := factory.NewOperation("Short", "Assembly", "Bench", 30*time.Minute, nil, 1, "")
	require.NoError(t, err)
	long, err := factory.NewOperation("Long", "Assembly", "Bench", 3*time.Hour, nil, 1, "")
	require.NoError(t, err)
	require.Equal(t, "A", e.ExecuteOperation(short).AssignedWorker)
	require.Equal(t, "B", e.ExecuteOperation(long).AssignedWorker)

	require.True(t, e.RemoveWorker("A"))
	require.Equal(t, 1, e.GetStatus().OperationsInProgress)
	require.True(t, e.AddWorker(a))

	// Act
	e.AdvanceTime(time.Hour)

	// Assert
	completed := rec.ofType(factory.OperationCompletedEvent)
	require.Len(t, completed, 1)
	assert.True(t, completed[0].(factory.OperationCompleted).Reconstructed)

	status := e.GetStatus()
	assert.Equal(t, 1, status.BusyWorkers)
	assert.Equal(t, 1, status.OperationsInProgress)
	active := e.ActiveExecutions()
	require.Len(t, active, 1)
	assert.Equal(t, "B", active[0].Worker)
}
