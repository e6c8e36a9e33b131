package config

import "time"

// SimulationConfig controls the clock and the driver loop
type SimulationConfig struct {
	// StartTime is the simulated instant the clock starts at (RFC 3339).
	// Empty means the current wall-clock time truncated to the minute.
	StartTime string `mapstructure:"start_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`

	WorkDay WorkDayConfig `mapstructure:"work_day"`

	// Tick is the simulated time added per driver tick
	Tick time.Duration `mapstructure:"tick" validate:"gt=0"`

	// Ticks bounds the run; 0 runs until interrupted
	Ticks int `mapstructure:"ticks" validate:"min=0"`

	// TickInterval paces ticks in wall-clock time. The run command's --fast
	// flag drops the pacing.
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"min=0"`

	ExecutionsPerTick int `mapstructure:"executions_per_tick" validate:"min=0"`

	// RestockQuantity is added to low-stock materials after each tick; 0 disables it
	RestockQuantity int `mapstructure:"restock_quantity" validate:"min=0"`

	Seed int64 `mapstructure:"seed"`

	// PIDFile, when set, prevents two runs from sharing one journal
	PIDFile string `mapstructure:"pid_file"`
}

// WorkDayConfig is the "HH:MM" span reported as working hours
type WorkDayConfig struct {
	Start string `mapstructure:"start" validate:"required,datetime=15:04"`
	End   string `mapstructure:"end" validate:"required,datetime=15:04"`
}

// ParsedStartTime returns the configured start instant, or fallback when unset
func (s SimulationConfig) ParsedStartTime(fallback time.Time) (time.Time, error) {
	if s.StartTime == "" {
		return fallback, nil
	}
	return time.Parse(time.RFC3339, s.StartTime)
}
