package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factorysim/internal/application/mediator"
	"github.com/andrescamacho/factorysim/internal/application/simulation"
)

// StatusReader projects the floor's status
type StatusReader interface {
	GetStatus() simulation.StatusSnapshot
	Resources() []simulation.ResourceView
	Materials() []simulation.MaterialView
}

// GetStatusQuery asks for the current snapshot, optionally with per-resource detail
type GetStatusQuery struct {
	IncludeResources bool
	IncludeMaterials bool
}

// GetStatusResponse carries the snapshot and optional detail
type GetStatusResponse struct {
	Status    simulation.StatusSnapshot
	Resources []simulation.ResourceView
	Materials []simulation.MaterialView
}

// GetStatusHandler handles the GetStatus query
type GetStatusHandler struct {
	reader StatusReader
}

// NewGetStatusHandler creates a new GetStatusHandler
func NewGetStatusHandler(reader StatusReader) *GetStatusHandler {
	return &GetStatusHandler{reader: reader}
}

// Handle executes the GetStatus query
func (h *GetStatusHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetStatusQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetStatusQuery")
	}

	response := &GetStatusResponse{Status: h.reader.GetStatus()}
	if query.IncludeResources {
		response.Resources = h.reader.Resources()
	}
	if query.IncludeMaterials {
		response.Materials = h.reader.Materials()
	}
	return response, nil
}
