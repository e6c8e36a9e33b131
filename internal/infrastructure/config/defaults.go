package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Simulation defaults
	if cfg.Simulation.WorkDay.Start == "" {
		cfg.Simulation.WorkDay.Start = "08:00"
	}
	if cfg.Simulation.WorkDay.End == "" {
		cfg.Simulation.WorkDay.End = "17:00"
	}
	if cfg.Simulation.Tick == 0 {
		cfg.Simulation.Tick = 15 * time.Minute
	}
	if cfg.Simulation.TickInterval == 0 {
		cfg.Simulation.TickInterval = time.Second
	}
	if cfg.Simulation.ExecutionsPerTick == 0 {
		cfg.Simulation.ExecutionsPerTick = 2
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = 42
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "factorysim.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "factorysim"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "factorysim"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Metrics defaults
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "factorysim"
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	if cfg.Floor.IsEmpty() {
		cfg.Floor = DefaultFloor()
	}
}

// DefaultFloor is the demo floor used when no floor is configured: four
// workers, one machine per type, four stock lines and five operations
func DefaultFloor() FloorConfig {
	return FloorConfig{
		Workers: []WorkerConfig{
			{Name: "Alice", Skills: []string{"Machining", "Quality Control"}, HourlyRate: "25.00", Breaks: []string{"12:00-12:30"}},
			{Name: "Bob", Skills: []string{"Assembly", "Painting"}, HourlyRate: "22.50", Breaks: []string{"12:30-13:00"}},
			{Name: "Carol", Skills: []string{"Machining", "Assembly"}, HourlyRate: "27.00", Breaks: []string{"10:00-10:15", "12:00-12:30"}},
			{Name: "David", Skills: []string{"Painting", "Quality Control"}, HourlyRate: "24.00", Breaks: []string{"15:00-15:15"}},
		},
		Machines: []MachineConfig{
			{Name: "CNC-01", Type: "CNC", HourlyCost: "45.00", DefaultProcessingTime: 2 * time.Hour},
			{Name: "Assembly-01", Type: "Assembly", HourlyCost: "30.00", DefaultProcessingTime: time.Hour},
			{Name: "Paint-01", Type: "Painting", HourlyCost: "35.00", DefaultProcessingTime: 45 * time.Minute},
			{Name: "QC-01", Type: "Inspection", HourlyCost: "20.00", DefaultProcessingTime: 30 * time.Minute},
		},
		Materials: []MaterialConfig{
			{Name: "Steel", Quantity: 100, UnitCost: "5.50", MinimumStock: 20},
			{Name: "Aluminum", Quantity: 50, UnitCost: "8.25", MinimumStock: 10},
			{Name: "Paint", Quantity: 30, UnitCost: "12.00", MinimumStock: 5},
			{Name: "Screws", Quantity: 1000, UnitCost: "0.05", MinimumStock: 200},
		},
		Operations: []OperationConfig{
			{
				Name: "Machine Parts", Skill: "Machining", MachineType: "CNC", Duration: 2 * time.Hour, Priority: 1,
				Description: "Cut steel and aluminum blanks",
				Materials:   []RequirementConfig{{Material: "Steel", Quantity: 5}, {Material: "Aluminum", Quantity: 2}},
			},
			{
				Name: "Assemble Product", Skill: "Assembly", MachineType: "Assembly", Duration: time.Hour, Priority: 2,
				Description: "Fasten machined parts into a unit",
				Materials:   []RequirementConfig{{Material: "Screws", Quantity: 20}},
			},
			{
				Name: "Paint Product", Skill: "Painting", MachineType: "Painting", Duration: 45 * time.Minute, Priority: 3,
				Description: "Apply finish coat",
				Materials:   []RequirementConfig{{Material: "Paint", Quantity: 2}},
			},
			{
				Name: "Quality Check", Skill: "Quality Control", MachineType: "Inspection", Duration: 30 * time.Minute, Priority: 2,
				Description: "Inspect a finished unit",
			},
			{
				Name: "Custom Fabrication", Skill: "Machining", MachineType: "CNC", Duration: 3 * time.Hour, Priority: 1,
				Description: "One-off part from drawings",
				Materials: []RequirementConfig{
					{Material: "Steel", Quantity: 10}, {Material: "Aluminum", Quantity: 5}, {Material: "Screws", Quantity: 50},
				},
			},
		},
	}
}
