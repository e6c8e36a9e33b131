package factory

import (
	"fmt"
	"time"

	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

// ResourceState is the scheduling state of a worker or machine
type ResourceState string

const (
	// ResourceStateIdle - free for a new assignment
	ResourceStateIdle ResourceState = "IDLE"

	// ResourceStateBusy - running a task until its busy-until time
	ResourceStateBusy ResourceState = "BUSY"

	// ResourceStateOnBreak - not busy, but inside a break window (derived, never stored)
	ResourceStateOnBreak ResourceState = "ON_BREAK"
)

// Sentinel labels used for status and task text when a resource is not busy
const (
	IdleLabel    = "Idle"
	OnBreakLabel = "On Break"
)

// Resource is the scheduling capability shared by Worker and Machine
type Resource interface {
	Name() string
	IsBusy() bool
	BusyUntil() *time.Time
	IsAvailable(now time.Time) bool
	SetBusy(duration time.Duration, now time.Time)
	UpdateStatus(now time.Time) bool
	State(now time.Time) ResourceState
	StatusLabel(now time.Time) string
}

// ResourceSchedule holds the busy timer and break windows of a resource.
// Worker and Machine compose it rather than share a base type.
//
// Invariants:
//   - busy == true implies busyUntil != nil
//   - busyUntil is cleared exactly when the schedule transitions to not busy
//   - break windows only affect eligibility for new work, never a running task
type ResourceSchedule struct {
	busy      bool
	busyUntil *time.Time
	breaks    []shared.TimeWindow
}

// NewResourceSchedule creates an idle schedule with the given daily break windows
func NewResourceSchedule(breaks []shared.TimeWindow) ResourceSchedule {
	copied := make([]shared.TimeWindow, len(breaks))
	copy(copied, breaks)
	return ResourceSchedule{breaks: copied}
}

// IsBusy returns the busy flag
func (s *ResourceSchedule) IsBusy() bool {
	return s.busy
}

// BusyUntil returns when the current task ends (nil when not busy)
func (s *ResourceSchedule) BusyUntil() *time.Time {
	if s.busyUntil == nil {
		return nil
	}
	t := *s.busyUntil
	return &t
}

// Breaks returns a copy of the break windows
func (s *ResourceSchedule) Breaks() []shared.TimeWindow {
	copied := make([]shared.TimeWindow, len(s.breaks))
	copy(copied, s.breaks)
	return copied
}

// SetBusy marks the resource busy until now+duration. It always succeeds;
// callers validate availability first.
func (s *ResourceSchedule) SetBusy(duration time.Duration, now time.Time) {
	until := now.Add(duration)
	s.busy = true
	s.busyUntil = &until
}

// UpdateStatus clears the busy state once now reaches busy-until.
// Returns true when this call transitioned the schedule from busy to not busy.
func (s *ResourceSchedule) UpdateStatus(now time.Time) bool {
	if !s.busy || s.busyUntil == nil || now.Before(*s.busyUntil) {
		return false
	}
	s.busy = false
	s.busyUntil = nil
	return true
}

// IsOnBreak reports whether now falls within any break window (time of day only)
func (s *ResourceSchedule) IsOnBreak(now time.Time) bool {
	for _, w := range s.breaks {
		if w.Contains(now) {
			return true
		}
	}
	return false
}

// Remaining returns the time left on the current task (0 when not busy)
func (s *ResourceSchedule) Remaining(now time.Time) time.Duration {
	if !s.busy || s.busyUntil == nil {
		return 0
	}
	left := s.busyUntil.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// State derives the resource state. Break windows are consulted only when not busy.
func (s *ResourceSchedule) State(now time.Time) ResourceState {
	if s.busy {
		return ResourceStateBusy
	}
	if s.IsOnBreak(now) {
		return ResourceStateOnBreak
	}
	return ResourceStateIdle
}

// Label renders the human status: "Busy (Nm left)", "On Break" or "Idle"
func (s *ResourceSchedule) Label(now time.Time) string {
	switch s.State(now) {
	case ResourceStateBusy:
		return fmt.Sprintf("Busy (%dm left)", minutesCeil(s.Remaining(now)))
	case ResourceStateOnBreak:
		return OnBreakLabel
	default:
		return IdleLabel
	}
}

func minutesCeil(d time.Duration) int {
	m := int(d / time.Minute)
	if d%time.Minute > 0 {
		m++
	}
	return m
}
