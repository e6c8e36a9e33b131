package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/factorysim/internal/application/mediator"
	"github.com/andrescamacho/factorysim/internal/application/simulation"
)

// TimeAdvancer moves simulated time forward
type TimeAdvancer interface {
	AdvanceTime(d time.Duration)
	GetStatus() simulation.StatusSnapshot
}

// AdvanceTimeCommand requests one tick of the given length
type AdvanceTimeCommand struct {
	Duration time.Duration
}

// AdvanceTimeResponse reports the clock after the tick and how many operations finished during it
type AdvanceTimeResponse struct {
	Now       time.Time
	Completed int
}

// AdvanceTimeHandler handles the AdvanceTime command
type AdvanceTimeHandler struct {
	advancer TimeAdvancer
}

// NewAdvanceTimeHandler creates a new AdvanceTimeHandler
func NewAdvanceTimeHandler(advancer TimeAdvancer) *AdvanceTimeHandler {
	return &AdvanceTimeHandler{advancer: advancer}
}

// Handle executes the AdvanceTime command
func (h *AdvanceTimeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AdvanceTimeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AdvanceTimeCommand")
	}
	if cmd.Duration < 0 {
		return nil, fmt.Errorf("duration cannot be negative: %s", cmd.Duration)
	}

	before := h.advancer.GetStatus().OperationsCompleted
	h.advancer.AdvanceTime(cmd.Duration)
	after := h.advancer.GetStatus()

	return &AdvanceTimeResponse{
		Now:       after.Timestamp,
		Completed: after.OperationsCompleted - before,
	}, nil
}
