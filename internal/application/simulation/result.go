package simulation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

// ExecutionResult is the outcome of ExecuteOperation. Failures are data:
// Success is false and FailureReason lists every blocking cause.
type ExecutionResult struct {
	Success          bool
	FailureReason    string
	ExecutionID      string
	Operation        string
	AssignedWorker   string
	AssignedMachine  string
	Cost             shared.Money
	StartTime        time.Time
	EstimatedEndTime time.Time
}

// StatusSnapshot is a point-in-time projection of the floor's aggregate counts
type StatusSnapshot struct {
	Timestamp            time.Time
	IsWorkingHours       bool
	TotalWorkers         int
	BusyWorkers          int
	IdleWorkers          int
	WorkersOnBreak       int
	TotalMachines        int
	BusyMachines         int
	TotalMaterials       int
	LowStockMaterials    int
	OperationsCompleted  int
	OperationsInProgress int
	TotalCost            shared.Money
	Efficiency           decimal.Decimal // percent of resources busy
}

// ResourceView is a read-only view of a worker or machine
type ResourceView struct {
	Name        string
	Kind        string // "worker" or "machine"
	State       factory.ResourceState
	StatusLabel string
	Task        string
	BusyUntil   *time.Time
	Capability  []string // skills for workers, the type tag for machines
	HourlyCost  shared.Money
}

// MaterialView is a read-only view of an inventory line
type MaterialView struct {
	Name         string
	Quantity     int
	CostPerUnit  shared.Money
	MinimumStock int
	LowStock     bool
	TotalValue   shared.Money
}
