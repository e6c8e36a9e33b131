package driver

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/factorysim/internal/application/logging"
	"github.com/andrescamacho/factorysim/internal/application/mediator"
	"github.com/andrescamacho/factorysim/internal/application/simulation"
	"github.com/andrescamacho/factorysim/internal/application/simulation/commands"
	"github.com/andrescamacho/factorysim/internal/application/simulation/queries"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
)

// Config controls how the driver plays the simulation
type Config struct {
	// Tick is the simulated time added per tick
	Tick time.Duration

	// Ticks is the number of ticks to run; 0 runs until the context is cancelled
	Ticks int

	// Interval paces ticks in wall-clock time; 0 runs as fast as possible
	Interval time.Duration

	// ExecutionsPerTick caps how many operations are started after each tick
	ExecutionsPerTick int

	// RestockQuantity is added to every low-stock material after a tick; 0 disables restocking
	RestockQuantity int

	// Seed makes operation selection reproducible
	Seed int64
}

// StatusObserver receives the floor status after every tick
type StatusObserver interface {
	ObserveStatus(status simulation.StatusSnapshot)
}

// Report summarises a run
type Report struct {
	Ticks     int
	Started   int
	Rejected  int
	Completed int
	Restocked int
	Final     simulation.StatusSnapshot
}

// TickResult summarises a single tick
type TickResult struct {
	Now       time.Time
	Started   []simulation.ExecutionResult
	Rejected  int
	Completed int
	Restocked int
}

// Driver is the periodic collaborator around the engine: it advances time,
// then picks operations at random among those that can start and executes
// them. It talks to the engine only through the mediator.
type Driver struct {
	mediator   mediator.Mediator
	operations []*factory.Operation
	cfg        Config
	rng        *rand.Rand
	limiter    *rate.Limiter
	observers  []StatusObserver
}

// NewDriver creates a driver over the given operation catalog
func NewDriver(med mediator.Mediator, operations []*factory.Operation, cfg Config, observers ...StatusObserver) (*Driver, error) {
	if med == nil {
		return nil, fmt.Errorf("mediator is required")
	}
	if cfg.Tick <= 0 {
		return nil, fmt.Errorf("tick must be positive, got %s", cfg.Tick)
	}
	if cfg.Ticks < 0 {
		return nil, fmt.Errorf("ticks cannot be negative, got %d", cfg.Ticks)
	}
	if cfg.ExecutionsPerTick < 0 {
		return nil, fmt.Errorf("executions per tick cannot be negative, got %d", cfg.ExecutionsPerTick)
	}

	d := &Driver{
		mediator:   med,
		operations: operations,
		cfg:        cfg,
		rng:        rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)>>1|1)),
		observers:  observers,
	}
	if cfg.Interval > 0 {
		d.limiter = rate.NewLimiter(rate.Every(cfg.Interval), 1)
	}
	return d, nil
}

// Run ticks until the configured count is reached or ctx is cancelled
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	logger := logging.LoggerFromContext(ctx)
	report := &Report{}

	for d.cfg.Ticks == 0 || report.Ticks < d.cfg.Ticks {
		if err := ctx.Err(); err != nil {
			break
		}
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				break
			}
		}

		result, err := d.Tick(ctx)
		if err != nil {
			return report, fmt.Errorf("tick %d: %w", report.Ticks+1, err)
		}

		report.Ticks++
		report.Started += len(result.Started)
		report.Rejected += result.Rejected
		report.Completed += result.Completed
		report.Restocked += result.Restocked

		logger.Log("DEBUG", "tick finished", map[string]interface{}{
			"tick":      report.Ticks,
			"now":       result.Now.Format(time.RFC3339),
			"started":   len(result.Started),
			"completed": result.Completed,
		})
	}

	status, err := d.status(ctx, false)
	if err != nil {
		return report, err
	}
	report.Final = status.Status
	return report, nil
}

// Tick advances time once, restocks if configured, starts up to
// ExecutionsPerTick operations and notifies observers
func (d *Driver) Tick(ctx context.Context) (*TickResult, error) {
	resp, err := d.mediator.Send(ctx, &commands.AdvanceTimeCommand{Duration: d.cfg.Tick})
	if err != nil {
		return nil, fmt.Errorf("failed to advance time: %w", err)
	}
	advanced, ok := resp.(*commands.AdvanceTimeResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", resp)
	}
	result := &TickResult{Now: advanced.Now, Completed: advanced.Completed}

	if d.cfg.RestockQuantity > 0 {
		restocked, err := d.restockLowMaterials(ctx)
		if err != nil {
			return nil, err
		}
		result.Restocked = restocked
	}

	for i := 0; i < d.cfg.ExecutionsPerTick; i++ {
		op, err := d.pickEligible(ctx)
		if err != nil {
			return nil, err
		}
		if op == nil {
			break
		}

		resp, err := d.mediator.Send(ctx, &commands.ExecuteOperationCommand{Operation: op})
		if err != nil {
			return nil, fmt.Errorf("failed to execute %s: %w", op.Name(), err)
		}
		executed, ok := resp.(*commands.ExecuteOperationResponse)
		if !ok {
			return nil, fmt.Errorf("unexpected response type %T", resp)
		}
		if executed.Result.Success {
			result.Started = append(result.Started, executed.Result)
		} else {
			result.Rejected++
		}
	}

	status, err := d.status(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, o := range d.observers {
		o.ObserveStatus(status.Status)
	}
	return result, nil
}

// pickEligible chooses uniformly among the operations that can start now (nil when none)
func (d *Driver) pickEligible(ctx context.Context) (*factory.Operation, error) {
	resp, err := d.mediator.Send(ctx, &queries.ListOperationsQuery{Operations: d.operations, EligibleOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	listed, ok := resp.(*queries.ListOperationsResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", resp)
	}
	if len(listed.Operations) == 0 {
		return nil, nil
	}
	return listed.Operations[d.rng.IntN(len(listed.Operations))].Operation, nil
}

func (d *Driver) restockLowMaterials(ctx context.Context) (int, error) {
	status, err := d.status(ctx, true)
	if err != nil {
		return 0, err
	}

	restocked := 0
	for _, m := range status.Materials {
		if !m.LowStock {
			continue
		}
		resp, err := d.mediator.Send(ctx, &commands.RestockMaterialCommand{Material: m.Name, Quantity: d.cfg.RestockQuantity})
		if err != nil {
			return restocked, fmt.Errorf("failed to restock %s: %w", m.Name, err)
		}
		if r, ok := resp.(*commands.RestockMaterialResponse); ok && r.Restocked {
			restocked++
		}
	}
	return restocked, nil
}

func (d *Driver) status(ctx context.Context, withMaterials bool) (*queries.GetStatusResponse, error) {
	resp, err := d.mediator.Send(ctx, &queries.GetStatusQuery{IncludeMaterials: withMaterials})
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	status, ok := resp.(*queries.GetStatusResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", resp)
	}
	return status, nil
}
