package shared

import "time"

// Clock abstracts the passage of time so floor components never read the wall clock
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

var _ Clock = (*SimulationClock)(nil)

// SimulationClock is the factory's notion of "now". It never reads the wall
// clock: time moves only through AdvanceTime.
//
// Invariants:
//   - Time only moves forward
//   - The running flag is informational; AdvanceTime works regardless of it
type SimulationClock struct {
	current time.Time
	running bool
	workDay TimeWindow
}

// NewSimulationClock creates a stopped clock at start with the given work-day window
func NewSimulationClock(start time.Time, workDay TimeWindow) *SimulationClock {
	return &SimulationClock{
		current: start,
		workDay: workDay,
	}
}

// Now returns the current simulation time
func (c *SimulationClock) Now() time.Time {
	return c.current
}

// Sleep advances simulated time, it never blocks
func (c *SimulationClock) Sleep(d time.Duration) {
	c.AdvanceTime(d)
}

// AdvanceTime adds d to the current time. Non-positive durations are ignored.
func (c *SimulationClock) AdvanceTime(d time.Duration) {
	if d <= 0 {
		return
	}
	c.current = c.current.Add(d)
}

// IsWorkingHours reports whether the current time of day falls inside the work-day window.
// Scheduling does not enforce it.
func (c *SimulationClock) IsWorkingHours() bool {
	return c.workDay.Contains(c.current)
}

// WorkDay returns the configured work-day window
func (c *SimulationClock) WorkDay() TimeWindow {
	return c.workDay
}

// Start marks the clock as running
func (c *SimulationClock) Start() {
	c.running = true
}

// Stop marks the clock as stopped
func (c *SimulationClock) Stop() {
	c.running = false
}

// IsRunning returns the running flag
func (c *SimulationClock) IsRunning() bool {
	return c.running
}
