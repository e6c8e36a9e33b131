package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

// Given steps

func (f *floorContext) theSimulationClockStartsAt(hour, minute int) error {
	f.startAt(hour, minute)
	return nil
}

func (f *floorContext) theFollowingWorkers(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		rate, err := shared.ParseMoney(getCellValue(table, row, "rate"))
		if err != nil {
			return err
		}
		var breaks []shared.TimeWindow
		for _, raw := range splitList(getCellValue(table, row, "breaks")) {
			w, err := shared.ParseTimeWindow(raw)
			if err != nil {
				return err
			}
			breaks = append(breaks, w)
		}
		w, err := factory.NewWorker(getCellValue(table, row, "name"), splitList(getCellValue(table, row, "skills")), rate, breaks...)
		if err != nil {
			return err
		}
		if !f.engine.AddWorker(w) {
			return fmt.Errorf("worker %s already on the floor", w.Name())
		}
	}
	return nil
}

func (f *floorContext) theFollowingMachines(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		cost, err := shared.ParseMoney(getCellValue(table, row, "hourly_cost"))
		if err != nil {
			return err
		}
		m, err := factory.NewMachine(getCellValue(table, row, "name"), getCellValue(table, row, "type"), cost, time.Hour)
		if err != nil {
			return err
		}
		if !f.engine.AddMachine(m) {
			return fmt.Errorf("machine %s already on the floor", m.Name())
		}
	}
	return nil
}

func (f *floorContext) theFollowingMaterials(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		qty, err := getCellInt(table, row, "quantity")
		if err != nil {
			return err
		}
		minimum, err := getCellInt(table, row, "minimum_stock")
		if err != nil {
			return err
		}
		cost, err := shared.ParseMoney(getCellValue(table, row, "unit_cost"))
		if err != nil {
			return err
		}
		m, err := factory.NewMaterial(getCellValue(table, row, "name"), qty, cost, minimum)
		if err != nil {
			return err
		}
		f.engine.AddMaterial(m)
	}
	return nil
}

func (f *floorContext) theFollowingOperations(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		minutes, err := getCellInt(table, row, "minutes")
		if err != nil {
			return err
		}
		priority, err := getCellInt(table, row, "priority")
		if err != nil {
			return err
		}
		if priority == 0 {
			priority = 1
		}
		reqs, err := parseRequirements(getCellValue(table, row, "materials"))
		if err != nil {
			return err
		}
		op, err := factory.NewOperation(
			getCellValue(table, row, "name"),
			getCellValue(table, row, "skill"),
			getCellValue(table, row, "machine_type"),
			time.Duration(minutes)*time.Minute,
			reqs,
			priority,
			"",
		)
		if err != nil {
			return err
		}
		f.operations[op.Name()] = op
	}
	return nil
}

func (f *floorContext) anUntrackedWorkerBusyWithFor(name, skill, task string, minutes int) error {
	w, err := factory.NewWorker(name, []string{skill}, shared.MoneyFromInt(20))
	if err != nil {
		return err
	}
	if !f.engine.AddWorker(w) {
		return fmt.Errorf("worker %s already on the floor", name)
	}
	w.StartTask(task, time.Duration(minutes)*time.Minute, f.engine.Now())
	return nil
}

// When steps

func (f *floorContext) iExecute(name string) error {
	op, ok := f.operations[name]
	if !ok {
		return fmt.Errorf("operation %s not defined", name)
	}
	result := f.engine.ExecuteOperation(op)
	f.lastResult = &result
	return nil
}

func (f *floorContext) iExecuteTimes(name string, times int) error {
	for i := 0; i < times; i++ {
		if err := f.iExecute(name); err != nil {
			return err
		}
	}
	return nil
}

func (f *floorContext) iAdvanceTimeByMinutes(minutes int) error {
	f.engine.AdvanceTime(time.Duration(minutes) * time.Minute)
	return nil
}

func (f *floorContext) iRemoveWorker(name string) error {
	if !f.engine.RemoveWorker(name) {
		return fmt.Errorf("worker %s not found", name)
	}
	return nil
}

func (f *floorContext) iRestockWithUnits(name string, qty int) error {
	if !f.engine.RestockMaterial(name, qty) {
		return fmt.Errorf("material %s not found", name)
	}
	return nil
}

// Then steps

func (f *floorContext) theExecutionShouldSucceedWithWorkerAndMachine(worker, machine string) error {
	if f.lastResult == nil {
		return fmt.Errorf("no operation executed")
	}
	if !f.lastResult.Success {
		return fmt.Errorf("expected success, got failure: %s", f.lastResult.FailureReason)
	}
	if f.lastResult.AssignedWorker != worker || f.lastResult.AssignedMachine != machine {
		return fmt.Errorf("expected %s on %s, got %s on %s",
			worker, machine, f.lastResult.AssignedWorker, f.lastResult.AssignedMachine)
	}
	return nil
}

func (f *floorContext) theExecutionCostShouldBe(expected string) error {
	if f.lastResult == nil {
		return fmt.Errorf("no operation executed")
	}
	if got := f.lastResult.Cost.String(); got != expected {
		return fmt.Errorf("expected cost %s, got %s", expected, got)
	}
	return nil
}

func (f *floorContext) theExecutionShouldFailWithReason(expected string) error {
	if f.lastResult == nil {
		return fmt.Errorf("no operation executed")
	}
	if f.lastResult.Success {
		return fmt.Errorf("expected failure, but %s was assigned to %s",
			f.lastResult.Operation, f.lastResult.AssignedWorker)
	}
	if f.lastResult.FailureReason != expected {
		return fmt.Errorf("expected reason %q, got %q", expected, f.lastResult.FailureReason)
	}
	return nil
}

func (f *floorContext) materialShouldHaveUnits(name string, expected int) error {
	for _, m := range f.engine.Materials() {
		if m.Name == name {
			if m.Quantity != expected {
				return fmt.Errorf("expected %d %s, got %d", expected, name, m.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("material %s not found", name)
}

func (f *floorContext) eventsShouldHaveBeenEmitted(expected int, eventType string) error {
	if got := len(f.events.ofType(factory.EventType(eventType))); got != expected {
		return fmt.Errorf("expected %d %s events, got %d", expected, eventType, got)
	}
	return nil
}

func (f *floorContext) theLastCompletedOperationShouldBeBy(operation, worker string) error {
	completed := f.events.ofType(factory.OperationCompletedEvent)
	if len(completed) == 0 {
		return fmt.Errorf("no operation completed")
	}
	last := completed[len(completed)-1].(factory.OperationCompleted)
	if last.Execution.Operation != operation || last.Execution.Worker != worker {
		return fmt.Errorf("expected %s by %s, got %s by %s",
			operation, worker, last.Execution.Operation, last.Execution.Worker)
	}
	return nil
}

func (f *floorContext) theLastCompletionShouldBeReconstructed(negate string) error {
	completed := f.events.ofType(factory.OperationCompletedEvent)
	if len(completed) == 0 {
		return fmt.Errorf("no operation completed")
	}
	last := completed[len(completed)-1].(factory.OperationCompleted)
	want := negate == ""
	if last.Reconstructed != want {
		return fmt.Errorf("expected reconstructed=%t, got %t", want, last.Reconstructed)
	}
	return nil
}

func (f *floorContext) theStatusShouldShow(busy, onBreak, inProgress int) error {
	s := f.engine.GetStatus()
	if s.BusyWorkers != busy || s.WorkersOnBreak != onBreak || s.OperationsInProgress != inProgress {
		return fmt.Errorf("expected busy=%d on_break=%d in_progress=%d, got busy=%d on_break=%d in_progress=%d",
			busy, onBreak, inProgress, s.BusyWorkers, s.WorkersOnBreak, s.OperationsInProgress)
	}
	return nil
}

func (f *floorContext) theStatusShouldShowCompletedOperations(expected int) error {
	if got := f.engine.GetStatus().OperationsCompleted; got != expected {
		return fmt.Errorf("expected %d completed operations, got %d", expected, got)
	}
	return nil
}

func (f *floorContext) theTotalCostShouldBe(expected string) error {
	if got := f.engine.GetStatus().TotalCost.String(); got != expected {
		return fmt.Errorf("expected total cost %s, got %s", expected, got)
	}
	return nil
}

func (f *floorContext) theEfficiencyShouldBePercent(expected string) error {
	got := f.engine.GetStatus().Efficiency.StringFixed(2)
	if got != expected {
		return fmt.Errorf("expected efficiency %s%%, got %s%%", expected, got)
	}
	return nil
}

func (f *floorContext) workerStatusShouldBe(name, expected string) error {
	for _, r := range f.engine.Resources() {
		if r.Kind == "worker" && r.Name == name {
			if r.StatusLabel != expected {
				return fmt.Errorf("expected %s to be %q, got %q", name, expected, r.StatusLabel)
			}
			return nil
		}
	}
	return fmt.Errorf("worker %s not found", name)
}

func (f *floorContext) anAlertShouldContain(level, text string) error {
	for _, e := range f.events.ofType(factory.AlertEvent) {
		alert := e.(factory.Alert)
		if string(alert.Level) == level && strings.Contains(alert.Message, text) {
			return nil
		}
	}
	return fmt.Errorf("no %s alert containing %q", level, text)
}

// InitializeFactoryFloorScenario registers the floor steps
func InitializeFactoryFloorScenario(ctx *godog.ScenarioContext) {
	f := globalFloor

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		f.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the simulation clock starts at (\d{2}):(\d{2})$`, f.theSimulationClockStartsAt)
	ctx.Step(`^the following workers:$`, f.theFollowingWorkers)
	ctx.Step(`^the following machines:$`, f.theFollowingMachines)
	ctx.Step(`^the following materials:$`, f.theFollowingMaterials)
	ctx.Step(`^the following operations:$`, f.theFollowingOperations)
	ctx.Step(`^an untracked worker "([^"]*)" with skill "([^"]*)" busy with "([^"]*)" for (\d+) minutes$`, f.anUntrackedWorkerBusyWithFor)

	// When steps
	ctx.Step(`^I execute "([^"]*)"$`, f.iExecute)
	ctx.Step(`^I execute "([^"]*)" (\d+) times$`, f.iExecuteTimes)
	ctx.Step(`^I advance time by (\d+) minutes$`, f.iAdvanceTimeByMinutes)
	ctx.Step(`^I remove worker "([^"]*)"$`, f.iRemoveWorker)
	ctx.Step(`^I restock "([^"]*)" with (\d+) units$`, f.iRestockWithUnits)

	// Then steps
	ctx.Step(`^the execution should succeed with worker "([^"]*)" and machine "([^"]*)"$`, f.theExecutionShouldSucceedWithWorkerAndMachine)
	ctx.Step(`^the execution cost should be "([^"]*)"$`, f.theExecutionCostShouldBe)
	ctx.Step(`^the execution should fail with reason "([^"]*)"$`, f.theExecutionShouldFailWithReason)
	ctx.Step(`^material "([^"]*)" should have (\d+) units$`, f.materialShouldHaveUnits)
	ctx.Step(`^(\d+) "([^"]*)" events? should have been emitted$`, f.eventsShouldHaveBeenEmitted)
	ctx.Step(`^the last completed operation should be "([^"]*)" by "([^"]*)"$`, f.theLastCompletedOperationShouldBeBy)
	ctx.Step(`^the last completion should (not )?be reconstructed$`, f.theLastCompletionShouldBeReconstructed)
	ctx.Step(`^the status should show (\d+) busy workers?, (\d+) on break and (\d+) operations? in progress$`, f.theStatusShouldShow)
	ctx.Step(`^the status should show (\d+) completed operations?$`, f.theStatusShouldShowCompletedOperations)
	ctx.Step(`^the total cost should be "([^"]*)"$`, f.theTotalCostShouldBe)
	ctx.Step(`^the efficiency should be ([\d.]+)%$`, f.theEfficiencyShouldBePercent)
	ctx.Step(`^worker "([^"]*)" status should be "([^"]*)"$`, f.workerStatusShouldBe)
	ctx.Step(`^an? "([^"]*)" alert should contain "([^"]*)"$`, f.anAlertShouldContain)
}
