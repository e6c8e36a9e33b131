package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factorysim/internal/application/simulation/commands"
	"github.com/andrescamacho/factorysim/internal/application/simulation/queries"
)

// NewStatusCommand shows the configured floor, optionally after advancing time
func NewStatusCommand() *cobra.Command {
	var (
		showResources bool
		showMaterials bool
		advance       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the floor status",
		Long: `Build the configured floor and print its status snapshot.

--advance moves the clock forward before printing, which is useful to check
how break windows and working hours line up with the configured start time.

Examples:
  factorysim status
  factorysim status --resources --materials
  factorysim status --advance 4h --resources`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			if advance > 0 {
				if _, err := s.mediator.Send(ctx, &commands.AdvanceTimeCommand{Duration: advance}); err != nil {
					return err
				}
			}

			resp, err := s.mediator.Send(ctx, &queries.GetStatusQuery{
				IncludeResources: showResources,
				IncludeMaterials: showMaterials,
			})
			if err != nil {
				return err
			}
			status, ok := resp.(*queries.GetStatusResponse)
			if !ok {
				return fmt.Errorf("unexpected response type %T", resp)
			}

			out := cmd.OutOrStdout()
			printStatus(out, status.Status)
			if showResources {
				printResources(out, status.Resources)
			}
			if showMaterials {
				printMaterials(out, status.Materials)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showResources, "resources", false, "List workers and machines")
	cmd.Flags().BoolVar(&showMaterials, "materials", false, "List inventory lines")
	cmd.Flags().DurationVar(&advance, "advance", 0, "Advance the clock before printing")

	return cmd
}
