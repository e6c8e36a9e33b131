package factory

import (
	"strings"
	"time"

	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

// Machine is a piece of equipment: a Resource with a type tag and an hourly
// operating cost. Machines have no break windows.
type Machine struct {
	name                  string
	machineType           string
	defaultProcessingTime time.Duration
	operatingCostPerHour  shared.Money
	schedule              ResourceSchedule
	operation             string
}

// NewMachine creates an idle machine
func NewMachine(name, machineType string, operatingCostPerHour shared.Money, defaultProcessingTime time.Duration) (*Machine, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ErrInvalidResource{Kind: "machine", Name: name, Field: "name", Reason: "name cannot be empty"}
	}
	if strings.TrimSpace(machineType) == "" {
		return nil, &ErrInvalidResource{Kind: "machine", Name: name, Field: "type", Reason: "machine type cannot be empty"}
	}
	if operatingCostPerHour.IsNegative() {
		return nil, &ErrInvalidResource{Kind: "machine", Name: name, Field: "operating_cost", Reason: "operating cost cannot be negative"}
	}
	if defaultProcessingTime < 0 {
		return nil, &ErrInvalidResource{Kind: "machine", Name: name, Field: "default_processing_time", Reason: "processing time cannot be negative"}
	}

	return &Machine{
		name:                  name,
		machineType:           machineType,
		defaultProcessingTime: defaultProcessingTime,
		operatingCostPerHour:  operatingCostPerHour,
		schedule:              NewResourceSchedule(nil),
	}, nil
}

// Getters

func (m *Machine) Name() string { return m.name }

func (m *Machine) MachineType() string { return m.machineType }

func (m *Machine) DefaultProcessingTime() time.Duration { return m.defaultProcessingTime }

func (m *Machine) OperatingCostPerHour() shared.Money { return m.operatingCostPerHour }

func (m *Machine) IsBusy() bool { return m.schedule.IsBusy() }

func (m *Machine) BusyUntil() *time.Time { return m.schedule.BusyUntil() }

// CanPerform is a case-insensitive comparison against the machine type
func (m *Machine) CanPerform(machineType string) bool {
	return strings.EqualFold(m.machineType, machineType)
}

// IsAvailable returns true when the machine is not busy. Break windows never apply.
func (m *Machine) IsAvailable(now time.Time) bool {
	return !m.schedule.IsBusy()
}

// SetBusy marks the machine busy without naming an operation
func (m *Machine) SetBusy(duration time.Duration, now time.Time) {
	m.schedule.SetBusy(duration, now)
}

// StartOperation marks the machine busy running the named operation
func (m *Machine) StartOperation(name string, duration time.Duration, now time.Time) {
	m.schedule.SetBusy(duration, now)
	m.operation = name
}

// UpdateStatus frees the machine once its operation's time is up
func (m *Machine) UpdateStatus(now time.Time) bool {
	if !m.schedule.UpdateStatus(now) {
		return false
	}
	m.operation = ""
	return true
}

// CurrentOperation returns the running operation name, or "Idle"
func (m *Machine) CurrentOperation() string {
	if m.schedule.IsBusy() && m.operation != "" {
		return m.operation
	}
	return IdleLabel
}

// State derives the machine state; machines are never on break
func (m *Machine) State(now time.Time) ResourceState {
	if m.schedule.IsBusy() {
		return ResourceStateBusy
	}
	return ResourceStateIdle
}

// StatusLabel renders the machine's status text
func (m *Machine) StatusLabel(now time.Time) string {
	return m.schedule.Label(now)
}

// CalculateOperatingCost returns hours(duration) * operating cost per hour
func (m *Machine) CalculateOperatingCost(duration time.Duration) shared.Money {
	return m.operatingCostPerHour.ForDuration(duration)
}

var _ Resource = (*Machine)(nil)
