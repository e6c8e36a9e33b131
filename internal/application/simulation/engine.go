package simulation

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/factorysim/internal/application/logging"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

// DefaultWorkDay is used when the engine is created without a clock
var DefaultWorkDay = shared.NewTimeWindow(shared.MustTimeOfDay(8, 0), shared.MustTimeOfDay(17, 0))

// Engine is the factory: it owns the workers, machines, material ledger and
// clock, and is the only place where operations are validated, committed and
// completed.
//
// Resource selection is first-match in insertion order. This is a
// deterministic tie-break, not a load-balancing policy.
//
// All methods are safe for concurrent use; the validate -> select -> commit ->
// mark-busy sequence of ExecuteOperation runs under one lock.
type Engine struct {
	mu sync.Mutex

	clock    *shared.SimulationClock
	workers  []*factory.Worker
	machines []*factory.Machine
	ledger   *factory.MaterialLedger

	totalCost  shared.Money
	completed  int
	inProgress int
	active     map[string]factory.Execution // keyed by worker name

	sinks  []factory.EventSink
	logger logging.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine's logger
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithEventSink subscribes sink to every notification
func WithEventSink(sink factory.EventSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sinks = append(e.sinks, sink)
		}
	}
}

// NewEngine creates an empty factory. A nil clock starts at the current
// wall-clock minute with DefaultWorkDay.
func NewEngine(clock *shared.SimulationClock, opts ...Option) *Engine {
	if clock == nil {
		clock = shared.NewSimulationClock(time.Now().UTC().Truncate(time.Minute), DefaultWorkDay)
	}

	e := &Engine{
		clock:  clock,
		ledger: factory.NewMaterialLedger(),
		active: make(map[string]factory.Execution),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Subscribe adds a notification sink
func (e *Engine) Subscribe(sink factory.EventSink) {
	if sink == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sinks = append(e.sinks, sink)
}

// Now returns the current simulation time
func (e *Engine) Now() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock.Now()
}

// Floor management

// AddWorker adds w to the floor. Nil workers and names already present are ignored.
func (e *Engine) AddWorker(w *factory.Worker) bool {
	if w == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.workerIndex(w.Name()) >= 0 {
		return false
	}
	e.workers = append(e.workers, w)
	return true
}

// RemoveWorker removes the named worker. A worker removed mid-task takes its
// execution with it: the in-progress count drops and an alert is raised.
func (e *Engine) RemoveWorker(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.workerIndex(name)
	if i < 0 {
		return false
	}
	e.workers = append(e.workers[:i], e.workers[i+1:]...)

	if exec, ok := e.active[name]; ok {
		delete(e.active, name)
		e.decrementInProgress()
		e.emit(factory.Alert{
			Level:      factory.AlertLevelWarning,
			Message:    fmt.Sprintf("Worker %s removed while running %s", name, exec.Operation),
			OccurredAt: e.clock.Now(),
		})
	}
	return true
}

// AddMachine adds m to the floor. Nil machines and names already present are ignored.
func (e *Engine) AddMachine(m *factory.Machine) bool {
	if m == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.machineIndex(m.Name()) >= 0 {
		return false
	}
	e.machines = append(e.machines, m)
	return true
}

// RemoveMachine removes the named machine
func (e *Engine) RemoveMachine(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.machineIndex(name)
	if i < 0 {
		return false
	}
	e.machines = append(e.machines[:i], e.machines[i+1:]...)
	return true
}

// AddMaterial stores m in the ledger, replacing an entry with the same name.
// Adding the exact entry already stored is a no-op. A low-stock notification
// fires when the stored line is low and the line it replaced (if any) was not.
func (e *Engine) AddMaterial(m *factory.Material) bool {
	if m == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if existing, ok := e.ledger.Get(m.Name()); ok && existing == m {
		return false
	}
	previous := e.ledger.Put(m)
	if m.IsLowStock() && (previous == nil || !previous.IsLowStock()) {
		e.emitLowStock(m)
	}
	return true
}

// RemoveMaterial deletes the named ledger entry
func (e *Engine) RemoveMaterial(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Remove(name)
}

// RestockMaterial adds qty units to the named material. Returns false for unknown materials.
func (e *Engine) RestockMaterial(name string, qty int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.ledger.Get(name)
	if !ok {
		return false
	}
	m.AddQuantity(qty)
	e.logger.Log("DEBUG", "material restocked", map[string]interface{}{
		"material": name,
		"quantity": m.Quantity(),
	})
	return true
}

// Scheduling

// CanExecuteOperation is an advisory check: a skilled available worker, an
// available machine of the right type and all materials exist right now.
// Nothing is reserved.
func (e *Engine) CanExecuteOperation(op *factory.Operation) bool {
	if op == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	return e.firstAvailableWorker(op, now) != nil &&
		e.firstAvailableMachine(op, now) != nil &&
		op.AreAllMaterialsAvailable(e.ledger)
}

// ExecuteOperation validates and commits one run of op. Materials and cost are
// charged at start. On failure nothing changes and the result explains why.
func (e *Engine) ExecuteOperation(op *factory.Operation) ExecutionResult {
	if op == nil {
		return ExecutionResult{FailureReason: "no operation given"}
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	worker := e.firstAvailableWorker(op, now)
	machine := e.firstAvailableMachine(op, now)
	if worker == nil || machine == nil || !op.AreAllMaterialsAvailable(e.ledger) {
		return e.reject(op, e.blockingReasons(op, now), now)
	}

	duration := op.Duration()
	cost := worker.CalculateCost(duration).
		Add(machine.CalculateOperatingCost(duration)).
		Add(op.CalculateMaterialCost(e.ledger))

	crossedLow, err := e.consumeMaterials(op)
	if err != nil {
		return e.reject(op, err.Error(), now)
	}

	worker.StartTask(op.Name(), duration, now)
	machine.StartOperation(op.Name(), duration, now)

	e.totalCost = e.totalCost.Add(cost)
	e.inProgress++

	exec := factory.NewExecution(op, worker, machine, cost, now)
	e.active[worker.Name()] = exec

	e.logger.Log("DEBUG", "operation started", map[string]interface{}{
		"operation": op.Name(),
		"worker":    worker.Name(),
		"machine":   machine.Name(),
		"cost":      cost.String(),
	})
	e.emit(factory.OperationStarted{Execution: exec, OccurredAt: now})
	for _, m := range crossedLow {
		e.emitLowStock(m)
	}

	return ExecutionResult{
		Success:          true,
		ExecutionID:      exec.ID,
		Operation:        op.Name(),
		AssignedWorker:   worker.Name(),
		AssignedMachine:  machine.Name(),
		Cost:             cost,
		StartTime:        now,
		EstimatedEndTime: exec.EstimatedEndAt,
	}
}

// AdvanceTime moves the clock forward, refreshes every resource and reports
// each worker that finished its task as a completed operation.
func (e *Engine) AdvanceTime(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clock.AdvanceTime(d)
	now := e.clock.Now()

	busyBefore := make(map[*factory.Worker]string, len(e.workers))
	for _, w := range e.workers {
		if w.IsBusy() {
			busyBefore[w] = w.ActiveTask()
		}
	}

	for _, w := range e.workers {
		w.UpdateStatus(now)
	}
	for _, m := range e.machines {
		m.UpdateStatus(now)
	}

	for _, w := range e.workers {
		// operation names may match status labels; only "" means no task
		task, wasBusy := busyBefore[w]
		if !wasBusy || w.IsBusy() || task == "" {
			continue
		}
		e.complete(w, task, now)
	}
}

// Queries

// Efficiency returns the percentage of resources currently busy (0 with no resources)
func (e *Engine) Efficiency() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.efficiency()
}

// GetStatus projects the current aggregate counts. It has no side effects.
func (e *Engine) GetStatus() StatusSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	s := StatusSnapshot{
		Timestamp:            now,
		IsWorkingHours:       e.clock.IsWorkingHours(),
		TotalWorkers:         len(e.workers),
		TotalMachines:        len(e.machines),
		TotalMaterials:       e.ledger.Len(),
		LowStockMaterials:    len(e.ledger.LowStock()),
		OperationsCompleted:  e.completed,
		OperationsInProgress: e.inProgress,
		TotalCost:            e.totalCost,
		Efficiency:           e.efficiency(),
	}
	for _, w := range e.workers {
		switch w.State(now) {
		case factory.ResourceStateBusy:
			s.BusyWorkers++
		case factory.ResourceStateOnBreak:
			s.WorkersOnBreak++
		default:
			s.IdleWorkers++
		}
	}
	for _, m := range e.machines {
		if m.IsBusy() {
			s.BusyMachines++
		}
	}
	return s
}

// Resources returns views of every worker then every machine, in floor order
func (e *Engine) Resources() []ResourceView {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	views := make([]ResourceView, 0, len(e.workers)+len(e.machines))
	for _, w := range e.workers {
		views = append(views, ResourceView{
			Name:        w.Name(),
			Kind:        "worker",
			State:       w.State(now),
			StatusLabel: w.StatusLabel(now),
			Task:        w.CurrentTask(now),
			BusyUntil:   w.BusyUntil(),
			Capability:  w.Skills(),
			HourlyCost:  w.HourlyRate(),
		})
	}
	for _, m := range e.machines {
		views = append(views, ResourceView{
			Name:        m.Name(),
			Kind:        "machine",
			State:       m.State(now),
			StatusLabel: m.StatusLabel(now),
			Task:        m.CurrentOperation(),
			BusyUntil:   m.BusyUntil(),
			Capability:  []string{m.MachineType()},
			HourlyCost:  m.OperatingCostPerHour(),
		})
	}
	return views
}

// Materials returns views of the ledger in insertion order
func (e *Engine) Materials() []MaterialView {
	e.mu.Lock()
	defer e.mu.Unlock()

	all := e.ledger.All()
	views := make([]MaterialView, len(all))
	for i, m := range all {
		views[i] = MaterialView{
			Name:         m.Name(),
			Quantity:     m.Quantity(),
			CostPerUnit:  m.CostPerUnit(),
			MinimumStock: m.MinimumStock(),
			LowStock:     m.IsLowStock(),
			TotalValue:   m.TotalValue(),
		}
	}
	return views
}

// ActiveExecutions returns the running executions ordered by start time, then worker
func (e *Engine) ActiveExecutions() []factory.Execution {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]factory.Execution, 0, len(e.active))
	for _, exec := range e.active {
		out = append(out, exec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].Worker < out[j].Worker
	})
	return out
}

// EstimateCost prices one run of op on the first eligible pair without
// committing anything. ok is false when the operation cannot run now.
func (e *Engine) EstimateCost(op *factory.Operation) (shared.Money, bool) {
	if op == nil {
		return shared.Zero(), false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	worker := e.firstAvailableWorker(op, now)
	machine := e.firstAvailableMachine(op, now)
	if worker == nil || machine == nil || !op.AreAllMaterialsAvailable(e.ledger) {
		return shared.Zero(), false
	}
	return worker.CalculateCost(op.Duration()).
		Add(machine.CalculateOperatingCost(op.Duration())).
		Add(op.CalculateMaterialCost(e.ledger)), true
}

// internals; callers hold e.mu

func (e *Engine) workerIndex(name string) int {
	for i, w := range e.workers {
		if w.Name() == name {
			return i
		}
	}
	return -1
}

func (e *Engine) machineIndex(name string) int {
	for i, m := range e.machines {
		if m.Name() == name {
			return i
		}
	}
	return -1
}

func (e *Engine) firstAvailableWorker(op *factory.Operation, now time.Time) *factory.Worker {
	for _, w := range e.workers {
		if w.HasSkill(op.RequiredSkill()) && w.IsAvailable(now) {
			return w
		}
	}
	return nil
}

func (e *Engine) firstAvailableMachine(op *factory.Operation, now time.Time) *factory.Machine {
	for _, m := range e.machines {
		if m.CanPerform(op.RequiredMachineType()) && m.IsAvailable(now) {
			return m
		}
	}
	return nil
}

// blockingReasons lists every cause that prevents op from starting now
func (e *Engine) blockingReasons(op *factory.Operation, now time.Time) string {
	var reasons []string

	skilled := 0
	for _, w := range e.workers {
		if w.HasSkill(op.RequiredSkill()) {
			skilled++
		}
	}
	switch {
	case skilled == 0:
		reasons = append(reasons, fmt.Sprintf("No workers with skill '%s'", op.RequiredSkill()))
	case e.firstAvailableWorker(op, now) == nil:
		reasons = append(reasons, fmt.Sprintf("All workers with skill '%s' are busy or on break", op.RequiredSkill()))
	}

	capable := 0
	for _, m := range e.machines {
		if m.CanPerform(op.RequiredMachineType()) {
			capable++
		}
	}
	switch {
	case capable == 0:
		reasons = append(reasons, fmt.Sprintf("No machines of type '%s'", op.RequiredMachineType()))
	case e.firstAvailableMachine(op, now) == nil:
		reasons = append(reasons, fmt.Sprintf("All '%s' machines are busy", op.RequiredMachineType()))
	}

	for _, shortage := range op.GetMissingMaterials(e.ledger) {
		reasons = append(reasons, shortage.String())
	}

	return strings.Join(reasons, "; ")
}

// consumeMaterials draws every requirement from the ledger. If any draw is
// refused, the ones already taken are put back and an error is returned.
func (e *Engine) consumeMaterials(op *factory.Operation) ([]*factory.Material, error) {
	type draw struct {
		material *factory.Material
		qty      int
	}
	var taken []draw
	var crossedLow []*factory.Material

	for _, req := range op.Requirements() {
		m, ok := e.ledger.Get(req.Material)
		wasLow := ok && m.IsLowStock()
		if !ok || !m.UseQuantity(req.Quantity) {
			for _, d := range taken {
				d.material.AddQuantity(d.qty)
			}
			return nil, fmt.Errorf("material %s could not be drawn", req.Material)
		}
		taken = append(taken, draw{material: m, qty: req.Quantity})
		if !wasLow && m.IsLowStock() {
			crossedLow = append(crossedLow, m)
		}
	}
	return crossedLow, nil
}

func (e *Engine) reject(op *factory.Operation, reason string, now time.Time) ExecutionResult {
	e.logger.Log("WARNING", "operation rejected", map[string]interface{}{
		"operation": op.Name(),
		"reason":    reason,
	})
	e.emit(factory.Alert{
		Level:      factory.AlertLevelWarning,
		Message:    fmt.Sprintf("Cannot execute %s: %s", op.Name(), reason),
		OccurredAt: now,
	})
	return ExecutionResult{
		Success:       false,
		FailureReason: reason,
		Operation:     op.Name(),
	}
}

func (e *Engine) complete(w *factory.Worker, task string, now time.Time) {
	e.completed++

	// untracked work never entered the in-progress count
	exec, tracked := e.active[w.Name()]
	if tracked {
		delete(e.active, w.Name())
		e.decrementInProgress()
	} else {
		exec = factory.Execution{Operation: task, Worker: w.Name()}
	}

	e.logger.Log("DEBUG", "operation completed", map[string]interface{}{
		"operation": exec.Operation,
		"worker":    exec.Worker,
		"machine":   exec.Machine,
	})
	e.emit(factory.OperationCompleted{
		Execution:     exec,
		Reconstructed: !tracked,
		OccurredAt:    now,
	})
}

func (e *Engine) decrementInProgress() {
	if e.inProgress > 0 {
		e.inProgress--
	}
}

func (e *Engine) efficiency() decimal.Decimal {
	total := len(e.workers) + len(e.machines)
	if total == 0 {
		return decimal.Zero
	}
	busy := 0
	for _, w := range e.workers {
		if w.IsBusy() {
			busy++
		}
	}
	for _, m := range e.machines {
		if m.IsBusy() {
			busy++
		}
	}
	return decimal.NewFromInt(int64(busy * 100)).DivRound(decimal.NewFromInt(int64(total)), 2)
}

func (e *Engine) emitLowStock(m *factory.Material) {
	e.emit(factory.MaterialLowStock{
		Material:     m.Name(),
		Quantity:     m.Quantity(),
		MinimumStock: m.MinimumStock(),
		OccurredAt:   e.clock.Now(),
	})
}

func (e *Engine) emit(event factory.Event) {
	for _, sink := range e.sinks {
		sink.Publish(event)
	}
}
