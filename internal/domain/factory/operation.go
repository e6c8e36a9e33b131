package factory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

// MaterialRequirement is a quantity of one material consumed by an operation
type MaterialRequirement struct {
	Material string
	Quantity int
}

// MaterialShortage describes why a requirement cannot be met
type MaterialShortage struct {
	Material string
	Present  bool // false when the material is not in the ledger at all
	Have     int
	Need     int
}

// Shortfall returns the number of missing units
func (s MaterialShortage) Shortfall() int {
	return s.Need - s.Have
}

func (s MaterialShortage) String() string {
	if !s.Present {
		return fmt.Sprintf("Material '%s' not in inventory", s.Material)
	}
	return fmt.Sprintf("Insufficient '%s': have %d, need %d (short by %d)", s.Material, s.Have, s.Need, s.Shortfall())
}

// Operation is an immutable recipe: what skill and machine type it needs, how
// long it runs and which materials it consumes. The same Operation can be
// executed any number of times.
//
// Priority is an ordinal where 1 is the most urgent; larger numbers are less urgent.
type Operation struct {
	name                string
	requiredSkill       string
	requiredMachineType string
	duration            time.Duration
	requirements        []MaterialRequirement // sorted by material name
	priority            int
	description         string
}

// NewOperation validates and creates a recipe. Every requirement quantity must be positive.
func NewOperation(
	name string,
	requiredSkill string,
	requiredMachineType string,
	duration time.Duration,
	requirements map[string]int,
	priority int,
	description string,
) (*Operation, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ErrInvalidOperation{Field: "name", Reason: "name cannot be empty"}
	}
	if strings.TrimSpace(requiredSkill) == "" {
		return nil, &ErrInvalidOperation{Operation: name, Field: "required_skill", Reason: "required skill cannot be empty"}
	}
	if strings.TrimSpace(requiredMachineType) == "" {
		return nil, &ErrInvalidOperation{Operation: name, Field: "required_machine_type", Reason: "required machine type cannot be empty"}
	}
	if duration <= 0 {
		return nil, &ErrInvalidOperation{Operation: name, Field: "duration", Reason: fmt.Sprintf("duration must be positive, got %s", duration)}
	}
	if priority < 1 {
		return nil, &ErrInvalidOperation{Operation: name, Field: "priority", Reason: fmt.Sprintf("priority must be at least 1, got %d", priority)}
	}

	reqs := make([]MaterialRequirement, 0, len(requirements))
	for material, qty := range requirements {
		if strings.TrimSpace(material) == "" {
			return nil, &ErrInvalidOperation{Operation: name, Field: "materials", Reason: "material name cannot be empty"}
		}
		if qty <= 0 {
			return nil, &ErrInvalidOperation{
				Operation: name,
				Field:     "materials",
				Reason:    fmt.Sprintf("quantity for %s must be positive, got %d", material, qty),
			}
		}
		reqs = append(reqs, MaterialRequirement{Material: material, Quantity: qty})
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].Material < reqs[j].Material })

	return &Operation{
		name:                name,
		requiredSkill:       requiredSkill,
		requiredMachineType: requiredMachineType,
		duration:            duration,
		requirements:        reqs,
		priority:            priority,
		description:         description,
	}, nil
}

// Getters

func (o *Operation) Name() string { return o.name }

func (o *Operation) RequiredSkill() string { return o.requiredSkill }

func (o *Operation) RequiredMachineType() string { return o.requiredMachineType }

func (o *Operation) Duration() time.Duration { return o.duration }

func (o *Operation) Priority() int { return o.priority }

func (o *Operation) Description() string { return o.description }

// Requirements returns a copy of the material requirements, sorted by material name
func (o *Operation) Requirements() []MaterialRequirement {
	out := make([]MaterialRequirement, len(o.requirements))
	copy(out, o.requirements)
	return out
}

// Outranks reports whether o is more urgent than other (lower priority number)
func (o *Operation) Outranks(other *Operation) bool {
	return o.priority < other.priority
}

// AreAllMaterialsAvailable reports whether the ledger covers every requirement.
// An operation without requirements is always available.
func (o *Operation) AreAllMaterialsAvailable(ledger *MaterialLedger) bool {
	for _, req := range o.requirements {
		m, ok := ledger.Get(req.Material)
		if !ok || !m.IsAvailable(req.Quantity) {
			return false
		}
	}
	return true
}

// CalculateMaterialCost sums quantity * unit cost over the requirements.
// A material missing from the ledger contributes nothing, so the figure is
// only meaningful after availability has been confirmed.
func (o *Operation) CalculateMaterialCost(ledger *MaterialLedger) shared.Money {
	total := shared.Zero()
	for _, req := range o.requirements {
		if m, ok := ledger.Get(req.Material); ok {
			total = total.Add(m.CostPerUnit().MulInt(req.Quantity))
		}
	}
	return total
}

// GetMissingMaterials lists every requirement the ledger cannot cover
func (o *Operation) GetMissingMaterials(ledger *MaterialLedger) []MaterialShortage {
	var missing []MaterialShortage
	for _, req := range o.requirements {
		m, ok := ledger.Get(req.Material)
		if !ok {
			missing = append(missing, MaterialShortage{Material: req.Material, Need: req.Quantity})
			continue
		}
		if !m.IsAvailable(req.Quantity) {
			missing = append(missing, MaterialShortage{
				Material: req.Material,
				Present:  true,
				Have:     m.Quantity(),
				Need:     req.Quantity,
			})
		}
	}
	return missing
}
