package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	applogging "github.com/andrescamacho/factorysim/internal/application/logging"
	"github.com/andrescamacho/factorysim/internal/application/mediator"
	"github.com/andrescamacho/factorysim/internal/application/setup"
	"github.com/andrescamacho/factorysim/internal/application/simulation"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/domain/shared"
	"github.com/andrescamacho/factorysim/internal/infrastructure/config"
	"github.com/andrescamacho/factorysim/internal/infrastructure/logging"
)

// session is everything a command needs to drive one engine
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	closer   io.Closer
	engine   *simulation.Engine
	floor    *config.Floor
	mediator mediator.Mediator
}

// Close releases the log file, if any
func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// appLogger adapts the session logger for the application layer
func (s *session) appLogger(module string) applogging.Logger {
	return applogging.NewSlogLogger(s.logger).WithModule(module)
}

// loadConfig reads the configuration named by --config and applies --verbose
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newSession loads config, sets up logging and builds a populated engine
// wired to sinks
func newSession(sinks ...factory.EventSink) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newSessionFromConfig(cfg, sinks...)
}

func newSessionFromConfig(cfg *config.Config, sinks ...factory.EventSink) (*session, error) {
	logger, closer, err := logging.Setup(cfg.Logging)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, logger: logger, closer: closer}
	s.engine, s.floor, err = BuildEngine(cfg, s.appLogger("engine"), sinks...)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.mediator, err = setup.NewHandlerRegistry(s.engine).CreateConfiguredMediator()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to configure mediator: %w", err)
	}
	return s, nil
}

// BuildEngine creates the clock and engine described by cfg and loads the
// configured floor into it
func BuildEngine(cfg *config.Config, logger applogging.Logger, sinks ...factory.EventSink) (*simulation.Engine, *config.Floor, error) {
	floor, err := config.BuildFloor(cfg.Floor)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid floor: %w", err)
	}

	workDay, err := shared.ParseTimeWindow(cfg.Simulation.WorkDay.Start + "-" + cfg.Simulation.WorkDay.End)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid work day: %w", err)
	}

	start, err := cfg.Simulation.ParsedStartTime(time.Now().UTC().Truncate(time.Minute))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid start_time: %w", err)
	}

	opts := []simulation.Option{simulation.WithLogger(logger)}
	for _, sink := range sinks {
		opts = append(opts, simulation.WithEventSink(sink))
	}
	engine := simulation.NewEngine(shared.NewSimulationClock(start, workDay), opts...)

	for _, w := range floor.Workers {
		if !engine.AddWorker(w) {
			return nil, nil, fmt.Errorf("duplicate worker %q", w.Name())
		}
	}
	for _, m := range floor.Machines {
		if !engine.AddMachine(m) {
			return nil, nil, fmt.Errorf("duplicate machine %q", m.Name())
		}
	}
	for _, m := range floor.Materials {
		engine.AddMaterial(m)
	}

	return engine, floor, nil
}
