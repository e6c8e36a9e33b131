package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factorysim/internal/application/mediator"
)

// MaterialRestocker replenishes inventory
type MaterialRestocker interface {
	RestockMaterial(name string, qty int) bool
}

// RestockMaterialCommand adds units to an existing material
type RestockMaterialCommand struct {
	Material string
	Quantity int
}

// RestockMaterialResponse reports whether the material was found
type RestockMaterialResponse struct {
	Restocked bool
}

// RestockMaterialHandler handles the RestockMaterial command
type RestockMaterialHandler struct {
	restocker MaterialRestocker
}

// NewRestockMaterialHandler creates a new RestockMaterialHandler
func NewRestockMaterialHandler(restocker MaterialRestocker) *RestockMaterialHandler {
	return &RestockMaterialHandler{restocker: restocker}
}

// Handle executes the RestockMaterial command
func (h *RestockMaterialHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RestockMaterialCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RestockMaterialCommand")
	}
	if cmd.Quantity <= 0 {
		return nil, fmt.Errorf("restock quantity must be positive, got %d", cmd.Quantity)
	}

	return &RestockMaterialResponse{
		Restocked: h.restocker.RestockMaterial(cmd.Material, cmd.Quantity),
	}, nil
}
