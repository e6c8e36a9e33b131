package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/factorysim/internal/adapters/events"
	"github.com/andrescamacho/factorysim/internal/adapters/metrics"
	"github.com/andrescamacho/factorysim/internal/adapters/persistence"
	"github.com/andrescamacho/factorysim/internal/application/driver"
	applogging "github.com/andrescamacho/factorysim/internal/application/logging"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/infrastructure/database"
	"github.com/andrescamacho/factorysim/internal/infrastructure/pidfile"
)

// NewRunCommand drives the simulation tick by tick
func NewRunCommand() *cobra.Command {
	var (
		ticks   int
		tick    time.Duration
		fast    bool
		seed    int64
		restock int
		follow  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation",
		Long: `Run the simulation driver over the configured floor.

Each tick advances the clock, restocks low materials when --restock is set,
then starts up to executions_per_tick operations chosen at random among those
that can start. Events go to the journal when database.enabled is set, and
to Prometheus when metrics.enabled is set.

Examples:
  factorysim run --ticks 32
  factorysim run --ticks 0 --follow          # until Ctrl-C
  factorysim run --tick 5m --ticks 96 --fast --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ticks") {
				cfg.Simulation.Ticks = ticks
			}
			if cmd.Flags().Changed("tick") {
				cfg.Simulation.Tick = tick
			}
			if cmd.Flags().Changed("seed") {
				cfg.Simulation.Seed = seed
			}
			if cmd.Flags().Changed("restock") {
				cfg.Simulation.RestockQuantity = restock
			}
			if fast {
				cfg.Simulation.TickInterval = 0
			}

			if cfg.Simulation.PIDFile != "" {
				lock := pidfile.New(cfg.Simulation.PIDFile)
				if err := lock.Acquire(); err != nil {
					return err
				}
				defer lock.Release()
			}

			s, err := newSessionFromConfig(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = applogging.WithLogger(ctx, s.appLogger("driver"))

			var observers []driver.StatusObserver

			if cfg.Database.Enabled {
				db, err := database.NewConnection(&cfg.Database)
				if err != nil {
					return err
				}
				defer database.Close(db)
				if err := database.AutoMigrate(db); err != nil {
					return fmt.Errorf("failed to migrate journal: %w", err)
				}
				s.engine.Subscribe(persistence.NewGormEventJournalRepository(db, s.appLogger("journal")))
			}

			if cfg.Metrics.Enabled {
				metrics.InitRegistry()
				floorMetrics := metrics.NewFactoryMetricsCollector(cfg.Metrics.Namespace)
				commandMetrics := metrics.NewCommandMetricsCollector(cfg.Metrics.Namespace)
				if err := floorMetrics.Register(); err != nil {
					return fmt.Errorf("failed to register floor metrics: %w", err)
				}
				if err := commandMetrics.Register(); err != nil {
					return fmt.Errorf("failed to register command metrics: %w", err)
				}
				s.engine.Subscribe(floorMetrics)
				s.mediator.RegisterMiddleware(metrics.PrometheusMiddleware(commandMetrics))
				observers = append(observers, floorMetrics)

				shutdown := serveMetrics(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path, s.appLogger("metrics"))
				defer shutdown()
			}

			pubSub := events.NewOrderedPubSub(watermill.NewSlogLogger(s.logger))
			defer pubSub.Close()
			s.engine.Subscribe(events.NewWatermillEventPublisher(pubSub, s.appLogger("events")))

			out := cmd.OutOrStdout()
			if follow {
				listenCtx, cancelListen := context.WithCancel(ctx)
				done, err := events.Listen(listenCtx, pubSub, func(_ context.Context, event factory.Event) error {
					fmt.Fprintln(out, formatEvent(event))
					return nil
				})
				if err != nil {
					cancelListen()
					return fmt.Errorf("failed to follow events: %w", err)
				}
				defer func() {
					cancelListen()
					<-done
				}()
			}

			drv, err := driver.NewDriver(s.mediator, s.floor.Operations, driver.Config{
				Tick:              cfg.Simulation.Tick,
				Ticks:             cfg.Simulation.Ticks,
				Interval:          cfg.Simulation.TickInterval,
				ExecutionsPerTick: cfg.Simulation.ExecutionsPerTick,
				RestockQuantity:   cfg.Simulation.RestockQuantity,
				Seed:              cfg.Simulation.Seed,
			}, observers...)
			if err != nil {
				return err
			}

			s.logger.Info("simulation started",
				"start", s.engine.Now().Format(time.RFC3339),
				"ticks", cfg.Simulation.Ticks,
				"tick", cfg.Simulation.Tick.String(),
			)

			report, err := drv.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\nRan %d ticks: %d started, %d rejected, %d completed, %d restocks\n",
				report.Ticks, report.Started, report.Rejected, report.Completed, report.Restocked)
			printStatus(out, report.Final)
			return nil
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 0, "Number of ticks to run; 0 runs until interrupted (default from config)")
	cmd.Flags().DurationVar(&tick, "tick", 0, "Simulated time per tick (default from config)")
	cmd.Flags().BoolVar(&fast, "fast", false, "Ignore tick_interval and run unpaced")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for operation selection (default from config)")
	cmd.Flags().IntVar(&restock, "restock", 0, "Units added to each low-stock material after every tick")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Print events as they happen")

	return cmd
}

// serveMetrics exposes the registry over HTTP and returns a shutdown func
func serveMetrics(host string, port int, path string, logger applogging.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())

	server := &http.Server{
		Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Log("INFO", "metrics server listening", map[string]interface{}{"addr": server.Addr, "path": path})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log("ERROR", "metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}
