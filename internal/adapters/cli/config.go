package cli

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factorysim/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect the effective configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (FSIM_* prefix, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Example:
  factorysim config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "factorysim Configuration")
	fmt.Fprintln(out, "========================")

	start := cfg.Simulation.StartTime
	if start == "" {
		start = "(now)"
	}
	fmt.Fprintln(out, "\nSimulation:")
	fmt.Fprintf(out, "  Start:            %s\n", start)
	fmt.Fprintf(out, "  Work Day:         %s-%s\n", cfg.Simulation.WorkDay.Start, cfg.Simulation.WorkDay.End)
	fmt.Fprintf(out, "  Tick:             %s (every %s)\n", cfg.Simulation.Tick, cfg.Simulation.TickInterval)
	fmt.Fprintf(out, "  Ticks:            %d\n", cfg.Simulation.Ticks)
	fmt.Fprintf(out, "  Executions/Tick:  %d\n", cfg.Simulation.ExecutionsPerTick)
	fmt.Fprintf(out, "  Restock Quantity: %d\n", cfg.Simulation.RestockQuantity)
	fmt.Fprintf(out, "  Seed:             %d\n", cfg.Simulation.Seed)

	fmt.Fprintln(out, "\nJournal Database:")
	fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Database.Enabled)
	fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
	switch {
	case cfg.Database.URL != "":
		fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
	case cfg.Database.Type == "sqlite":
		fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
	default:
		fmt.Fprintf(out, "  Host:             %s:%d\n", cfg.Database.Host, cfg.Database.Port)
		fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
		fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
	}

	fmt.Fprintln(out, "\nMetrics:")
	fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
	fmt.Fprintf(out, "  Endpoint:         http://%s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
	fmt.Fprintf(out, "  Namespace:        %s\n", cfg.Metrics.Namespace)

	fmt.Fprintln(out, "\nLogging:")
	fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

	fmt.Fprintln(out, "\nFloor:")
	workers := make([]string, 0, len(cfg.Floor.Workers))
	for _, w := range cfg.Floor.Workers {
		workers = append(workers, w.Name)
	}
	machines := make([]string, 0, len(cfg.Floor.Machines))
	for _, m := range cfg.Floor.Machines {
		machines = append(machines, m.Name)
	}
	materials := make([]string, 0, len(cfg.Floor.Materials))
	for _, m := range cfg.Floor.Materials {
		materials = append(materials, m.Name)
	}
	fmt.Fprintf(out, "  Workers:          %s\n", strings.Join(workers, ", "))
	fmt.Fprintf(out, "  Machines:         %s\n", strings.Join(machines, ", "))
	fmt.Fprintf(out, "  Materials:        %s\n", strings.Join(materials, ", "))
	fmt.Fprintf(out, "  Operations:       %d\n", len(cfg.Floor.Operations))
}

// maskPassword hides the password component of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "****")
	return u.String()
}
