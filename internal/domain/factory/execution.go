package factory

import (
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

// Execution is one run of an Operation on a worker/machine pair.
// It is a transient record: it exists from start until completion is detected.
type Execution struct {
	ID             string       `json:"id"`
	Operation      string       `json:"operation"`
	Worker         string       `json:"worker"`
	Machine        string       `json:"machine"`
	Cost           shared.Money `json:"cost"`
	StartedAt      time.Time    `json:"started_at"`
	EstimatedEndAt time.Time    `json:"estimated_end_at"`
}

// NewExecution creates a record with a fresh ID
func NewExecution(operation *Operation, worker *Worker, machine *Machine, cost shared.Money, startedAt time.Time) Execution {
	return Execution{
		ID:             uuid.New().String(),
		Operation:      operation.Name(),
		Worker:         worker.Name(),
		Machine:        machine.Name(),
		Cost:           cost,
		StartedAt:      startedAt,
		EstimatedEndAt: startedAt.Add(operation.Duration()),
	}
}

// Duration returns the planned run time
func (e Execution) Duration() time.Duration {
	return e.EstimatedEndAt.Sub(e.StartedAt)
}
