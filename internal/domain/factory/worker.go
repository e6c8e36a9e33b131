package factory

import (
	"strings"
	"time"

	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

// Worker is a person on the floor: a Resource with skills and an hourly rate.
// Workers honour their break windows when offered new work.
type Worker struct {
	name       string
	skills     []string
	hourlyRate shared.Money
	schedule   ResourceSchedule
	task       string // operation being worked on, "" when not busy
}

// NewWorker creates an idle worker. Skills are de-duplicated case-insensitively,
// keeping the first spelling.
func NewWorker(name string, skills []string, hourlyRate shared.Money, breaks ...shared.TimeWindow) (*Worker, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ErrInvalidResource{Kind: "worker", Name: name, Field: "name", Reason: "name cannot be empty"}
	}
	if hourlyRate.IsNegative() {
		return nil, &ErrInvalidResource{Kind: "worker", Name: name, Field: "hourly_rate", Reason: "hourly rate cannot be negative"}
	}

	seen := make(map[string]bool, len(skills))
	unique := make([]string, 0, len(skills))
	for _, skill := range skills {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, strings.TrimSpace(skill))
	}

	return &Worker{
		name:       name,
		skills:     unique,
		hourlyRate: hourlyRate,
		schedule:   NewResourceSchedule(breaks),
	}, nil
}

// Getters

func (w *Worker) Name() string { return w.name }

func (w *Worker) HourlyRate() shared.Money { return w.hourlyRate }

func (w *Worker) Breaks() []shared.TimeWindow { return w.schedule.Breaks() }

func (w *Worker) IsBusy() bool { return w.schedule.IsBusy() }

func (w *Worker) BusyUntil() *time.Time { return w.schedule.BusyUntil() }

// Skills returns a copy of the worker's skills
func (w *Worker) Skills() []string {
	skills := make([]string, len(w.skills))
	copy(skills, w.skills)
	return skills
}

// HasSkill is a case-insensitive membership test
func (w *Worker) HasSkill(skill string) bool {
	for _, s := range w.skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}

// IsOnBreak reports whether now falls within one of the worker's break windows
func (w *Worker) IsOnBreak(now time.Time) bool {
	return w.schedule.IsOnBreak(now)
}

// IsAvailable returns true when the worker is neither busy nor on break
func (w *Worker) IsAvailable(now time.Time) bool {
	return !w.schedule.IsBusy() && !w.schedule.IsOnBreak(now)
}

// SetBusy marks the worker busy without naming a task
func (w *Worker) SetBusy(duration time.Duration, now time.Time) {
	w.schedule.SetBusy(duration, now)
}

// StartTask marks the worker busy on the named operation
func (w *Worker) StartTask(name string, duration time.Duration, now time.Time) {
	w.schedule.SetBusy(duration, now)
	w.task = name
}

// UpdateStatus frees the worker once the task's time is up.
// Returns true when the worker went from busy to not busy.
func (w *Worker) UpdateStatus(now time.Time) bool {
	if !w.schedule.UpdateStatus(now) {
		return false
	}
	w.task = ""
	return true
}

// ActiveTask returns the raw task name ("" when none)
func (w *Worker) ActiveTask() string {
	return w.task
}

// CurrentTask returns the task label: the operation name while busy, otherwise
// the "Idle"/"On Break" sentinel
func (w *Worker) CurrentTask(now time.Time) string {
	if w.schedule.IsBusy() && w.task != "" {
		return w.task
	}
	if w.schedule.IsOnBreak(now) && !w.schedule.IsBusy() {
		return OnBreakLabel
	}
	return IdleLabel
}

// State derives the worker's state
func (w *Worker) State(now time.Time) ResourceState {
	return w.schedule.State(now)
}

// StatusLabel renders the worker's status text
func (w *Worker) StatusLabel(now time.Time) string {
	return w.schedule.Label(now)
}

// CalculateCost returns hours(duration) * hourly rate
func (w *Worker) CalculateCost(duration time.Duration) shared.Money {
	return w.hourlyRate.ForDuration(duration)
}

var _ Resource = (*Worker)(nil)
