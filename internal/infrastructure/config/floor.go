package config

import (
	"fmt"
	"time"

	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

// FloorConfig seeds the engine with its initial workers, machines, inventory
// and operation catalog
type FloorConfig struct {
	Workers    []WorkerConfig    `mapstructure:"workers" validate:"dive"`
	Machines   []MachineConfig   `mapstructure:"machines" validate:"dive"`
	Materials  []MaterialConfig  `mapstructure:"materials" validate:"dive"`
	Operations []OperationConfig `mapstructure:"operations" validate:"dive"`
}

// IsEmpty reports whether no floor was configured at all
func (f FloorConfig) IsEmpty() bool {
	return len(f.Workers) == 0 && len(f.Machines) == 0 && len(f.Materials) == 0 && len(f.Operations) == 0
}

// WorkerConfig describes one worker. Breaks are "HH:MM-HH:MM" windows.
type WorkerConfig struct {
	Name       string   `mapstructure:"name" validate:"required"`
	Skills     []string `mapstructure:"skills" validate:"required,min=1"`
	HourlyRate string   `mapstructure:"hourly_rate" validate:"required,money"`
	Breaks     []string `mapstructure:"breaks" validate:"dive,timewindow"`
}

// MachineConfig describes one machine
type MachineConfig struct {
	Name                  string        `mapstructure:"name" validate:"required"`
	Type                  string        `mapstructure:"type" validate:"required"`
	HourlyCost            string        `mapstructure:"hourly_cost" validate:"required,money"`
	DefaultProcessingTime time.Duration `mapstructure:"default_processing_time"`
}

// MaterialConfig describes one inventory line
type MaterialConfig struct {
	Name         string `mapstructure:"name" validate:"required"`
	Quantity     int    `mapstructure:"quantity" validate:"min=0"`
	UnitCost     string `mapstructure:"unit_cost" validate:"required,money"`
	MinimumStock int    `mapstructure:"minimum_stock" validate:"min=0"`
}

// RequirementConfig is one material draw of an operation. Requirements are a
// list rather than a map because viper lowercases map keys.
type RequirementConfig struct {
	Material string `mapstructure:"material" validate:"required"`
	Quantity int    `mapstructure:"quantity" validate:"gt=0"`
}

// OperationConfig describes one catalog entry
type OperationConfig struct {
	Name        string              `mapstructure:"name" validate:"required"`
	Skill       string              `mapstructure:"skill" validate:"required"`
	MachineType string              `mapstructure:"machine_type" validate:"required"`
	Duration    time.Duration       `mapstructure:"duration" validate:"gt=0"`
	Priority    int                 `mapstructure:"priority" validate:"min=1"`
	Description string              `mapstructure:"description"`
	Materials   []RequirementConfig `mapstructure:"materials" validate:"dive"`
}

// Floor holds the domain entities built from a FloorConfig, in config order
type Floor struct {
	Workers    []*factory.Worker
	Machines   []*factory.Machine
	Materials  []*factory.Material
	Operations []*factory.Operation
}

// Operation looks up a catalog entry by name
func (f *Floor) Operation(name string) (*factory.Operation, bool) {
	for _, op := range f.Operations {
		if op.Name() == name {
			return op, true
		}
	}
	return nil, false
}

// BuildFloor converts the configured floor into domain entities. Every
// entity goes through its domain constructor, so invalid values surface here
// with the offending entry named.
func BuildFloor(cfg FloorConfig) (*Floor, error) {
	floor := &Floor{}

	for _, wc := range cfg.Workers {
		rate, err := shared.ParseMoney(wc.HourlyRate)
		if err != nil {
			return nil, fmt.Errorf("worker %q: hourly_rate: %w", wc.Name, err)
		}
		breaks := make([]shared.TimeWindow, 0, len(wc.Breaks))
		for _, b := range wc.Breaks {
			window, err := shared.ParseTimeWindow(b)
			if err != nil {
				return nil, fmt.Errorf("worker %q: break %q: %w", wc.Name, b, err)
			}
			breaks = append(breaks, window)
		}
		w, err := factory.NewWorker(wc.Name, wc.Skills, rate, breaks...)
		if err != nil {
			return nil, err
		}
		floor.Workers = append(floor.Workers, w)
	}

	for _, mc := range cfg.Machines {
		cost, err := shared.ParseMoney(mc.HourlyCost)
		if err != nil {
			return nil, fmt.Errorf("machine %q: hourly_cost: %w", mc.Name, err)
		}
		m, err := factory.NewMachine(mc.Name, mc.Type, cost, mc.DefaultProcessingTime)
		if err != nil {
			return nil, err
		}
		floor.Machines = append(floor.Machines, m)
	}

	for _, mc := range cfg.Materials {
		cost, err := shared.ParseMoney(mc.UnitCost)
		if err != nil {
			return nil, fmt.Errorf("material %q: unit_cost: %w", mc.Name, err)
		}
		m, err := factory.NewMaterial(mc.Name, mc.Quantity, cost, mc.MinimumStock)
		if err != nil {
			return nil, err
		}
		floor.Materials = append(floor.Materials, m)
	}

	for _, oc := range cfg.Operations {
		requirements := make(map[string]int, len(oc.Materials))
		for _, r := range oc.Materials {
			if _, dup := requirements[r.Material]; dup {
				return nil, fmt.Errorf("operation %q: material %q listed twice", oc.Name, r.Material)
			}
			requirements[r.Material] = r.Quantity
		}
		op, err := factory.NewOperation(oc.Name, oc.Skill, oc.MachineType, oc.Duration, requirements, oc.Priority, oc.Description)
		if err != nil {
			return nil, err
		}
		floor.Operations = append(floor.Operations, op)
	}

	return floor, nil
}
