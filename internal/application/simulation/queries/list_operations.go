package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factorysim/internal/application/mediator"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

// OperationChecker answers advisory questions about operations
type OperationChecker interface {
	CanExecuteOperation(op *factory.Operation) bool
	EstimateCost(op *factory.Operation) (shared.Money, bool)
}

// OperationAvailability describes whether one operation could start now
type OperationAvailability struct {
	Operation     *factory.Operation
	CanExecute    bool
	EstimatedCost shared.Money
}

// ListOperationsQuery checks a catalog of operations against the floor
type ListOperationsQuery struct {
	Operations   []*factory.Operation
	EligibleOnly bool
}

// ListOperationsResponse lists the operations in catalog order
type ListOperationsResponse struct {
	Operations []OperationAvailability
}

// ListOperationsHandler handles the ListOperations query
type ListOperationsHandler struct {
	checker OperationChecker
}

// NewListOperationsHandler creates a new ListOperationsHandler
func NewListOperationsHandler(checker OperationChecker) *ListOperationsHandler {
	return &ListOperationsHandler{checker: checker}
}

// Handle executes the ListOperations query
func (h *ListOperationsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListOperationsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListOperationsQuery")
	}

	out := make([]OperationAvailability, 0, len(query.Operations))
	for _, op := range query.Operations {
		if op == nil {
			continue
		}
		cost, ok := h.checker.EstimateCost(op)
		if query.EligibleOnly && !ok {
			continue
		}
		out = append(out, OperationAvailability{
			Operation:     op,
			CanExecute:    ok,
			EstimatedCost: cost,
		})
	}
	return &ListOperationsResponse{Operations: out}, nil
}
