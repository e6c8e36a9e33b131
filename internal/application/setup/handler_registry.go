package setup

import (
	"reflect"

	"github.com/andrescamacho/factorysim/internal/application/mediator"
	"github.com/andrescamacho/factorysim/internal/application/simulation"
	"github.com/andrescamacho/factorysim/internal/application/simulation/commands"
	"github.com/andrescamacho/factorysim/internal/application/simulation/queries"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	engine *simulation.Engine
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(engine *simulation.Engine) *HandlerRegistry {
	return &HandlerRegistry{engine: engine}
}

// RegisterSimulationHandlers registers all simulation command and query handlers with the mediator
//
// This method registers:
//   - ExecuteOperationCommand → ExecuteOperationHandler
//   - AdvanceTimeCommand → AdvanceTimeHandler
//   - RestockMaterialCommand → RestockMaterialHandler
//   - GetStatusQuery → GetStatusHandler
//   - ListOperationsQuery → ListOperationsHandler
func (r *HandlerRegistry) RegisterSimulationHandlers(m mediator.Mediator) error {
	if err := m.Register(
		reflect.TypeOf(&commands.ExecuteOperationCommand{}),
		commands.NewExecuteOperationHandler(r.engine),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&commands.AdvanceTimeCommand{}),
		commands.NewAdvanceTimeHandler(r.engine),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&commands.RestockMaterialCommand{}),
		commands.NewRestockMaterialHandler(r.engine),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&queries.GetStatusQuery{}),
		queries.NewGetStatusHandler(r.engine),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&queries.ListOperationsQuery{}),
		queries.NewListOperationsHandler(r.engine),
	); err != nil {
		return err
	}

	return nil
}

// CreateConfiguredMediator creates a mediator with the logging middleware and
// every simulation handler registered
func (r *HandlerRegistry) CreateConfiguredMediator() (mediator.Mediator, error) {
	m := mediator.NewMediator()
	m.RegisterMiddleware(mediator.LoggingMiddleware())

	if err := r.RegisterSimulationHandlers(m); err != nil {
		return nil, err
	}

	return m, nil
}
