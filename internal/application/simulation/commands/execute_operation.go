package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factorysim/internal/application/logging"
	"github.com/andrescamacho/factorysim/internal/application/mediator"
	"github.com/andrescamacho/factorysim/internal/application/simulation"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
)

// OperationExecutor commits operation runs
type OperationExecutor interface {
	ExecuteOperation(op *factory.Operation) simulation.ExecutionResult
}

// ExecuteOperationCommand requests one run of an operation
type ExecuteOperationCommand struct {
	Operation *factory.Operation
}

// ExecuteOperationResponse carries the engine's result. A rejected run is not
// an error: check Result.Success.
type ExecuteOperationResponse struct {
	Result simulation.ExecutionResult
}

// ExecuteOperationHandler handles the ExecuteOperation command
type ExecuteOperationHandler struct {
	executor OperationExecutor
}

// NewExecuteOperationHandler creates a new ExecuteOperationHandler
func NewExecuteOperationHandler(executor OperationExecutor) *ExecuteOperationHandler {
	return &ExecuteOperationHandler{executor: executor}
}

// Handle executes the ExecuteOperation command
func (h *ExecuteOperationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ExecuteOperationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExecuteOperationCommand")
	}
	if cmd.Operation == nil {
		return nil, fmt.Errorf("operation is required")
	}

	result := h.executor.ExecuteOperation(cmd.Operation)

	logger := logging.LoggerFromContext(ctx)
	if result.Success {
		logger.Log("INFO", "operation started", map[string]interface{}{
			"operation":    result.Operation,
			"worker":       result.AssignedWorker,
			"machine":      result.AssignedMachine,
			"cost":         result.Cost.String(),
			"execution_id": result.ExecutionID,
		})
	} else {
		logger.Log("DEBUG", "operation not started", map[string]interface{}{
			"operation": cmd.Operation.Name(),
			"reason":    result.FailureReason,
		})
	}

	return &ExecuteOperationResponse{Result: result}, nil
}
