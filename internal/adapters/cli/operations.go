package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factorysim/internal/application/simulation/commands"
	"github.com/andrescamacho/factorysim/internal/application/simulation/queries"
)

// NewOperationsCommand creates the operations command with subcommands
func NewOperationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operations",
		Short: "Inspect the operation catalog",
		Long: `Inspect the configured operation catalog against the starting floor.

Examples:
  factorysim operations list
  factorysim operations list --eligible
  factorysim operations try "Paint Product"`,
	}

	cmd.AddCommand(newOperationsListCommand())
	cmd.AddCommand(newOperationsTryCommand())

	return cmd
}

func newOperationsListCommand() *cobra.Command {
	var eligibleOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List operations with eligibility and estimated cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			defer s.Close()

			resp, err := s.mediator.Send(cmd.Context(), &queries.ListOperationsQuery{
				Operations:   s.floor.Operations,
				EligibleOnly: eligibleOnly,
			})
			if err != nil {
				return err
			}
			listed, ok := resp.(*queries.ListOperationsResponse)
			if !ok {
				return fmt.Errorf("unexpected response type %T", resp)
			}

			out := cmd.OutOrStdout()
			if len(listed.Operations) == 0 {
				fmt.Fprintln(out, "No operations can start.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "OPERATION\tPRIORITY\tSKILL\tMACHINE\tDURATION\tREADY\tEST. COST")
			fmt.Fprintln(w, "─────────\t────────\t─────\t───────\t────────\t─────\t─────────")
			for _, a := range listed.Operations {
				ready, cost := "no", "-"
				if a.CanExecute {
					ready, cost = "yes", a.EstimatedCost.String()
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
					a.Operation.Name(),
					a.Operation.Priority(),
					a.Operation.RequiredSkill(),
					a.Operation.RequiredMachineType(),
					formatDuration(a.Operation.Duration()),
					ready,
					cost,
				)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().BoolVar(&eligibleOnly, "eligible", false, "Only list operations that can start now")

	return cmd
}

func newOperationsTryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "try <operation>",
		Short: "Execute one operation against the starting floor and show the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			defer s.Close()

			op, ok := s.floor.Operation(args[0])
			if !ok {
				return fmt.Errorf("unknown operation %q", args[0])
			}

			resp, err := s.mediator.Send(cmd.Context(), &commands.ExecuteOperationCommand{Operation: op})
			if err != nil {
				return err
			}
			executed, ok := resp.(*commands.ExecuteOperationResponse)
			if !ok {
				return fmt.Errorf("unexpected response type %T", resp)
			}

			out := cmd.OutOrStdout()
			result := executed.Result
			if !result.Success {
				fmt.Fprintf(out, "Cannot execute %s: %s\n", result.Operation, result.FailureReason)
				return nil
			}

			fmt.Fprintf(out, "Started %s\n", result.Operation)
			fmt.Fprintf(out, "  Execution:  %s\n", result.ExecutionID)
			fmt.Fprintf(out, "  Worker:     %s\n", result.AssignedWorker)
			fmt.Fprintf(out, "  Machine:    %s\n", result.AssignedMachine)
			fmt.Fprintf(out, "  Cost:       %s\n", result.Cost)
			fmt.Fprintf(out, "  Window:     %s -> %s\n", result.StartTime.Format(timeLayout), result.EstimatedEndTime.Format(timeLayout))
			return nil
		},
	}

	return cmd
}
