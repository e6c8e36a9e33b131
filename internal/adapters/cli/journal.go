package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/andrescamacho/factorysim/internal/adapters/persistence"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/infrastructure/database"
)

// NewJournalCommand reads the event journal written by previous runs
func NewJournalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Read the event journal",
		Long: `Read the events recorded by 'factorysim run' when database.enabled is set.

Examples:
  factorysim journal list
  factorysim journal list --type material.low_stock --limit 10
  factorysim journal list --execution 3f0c...
  factorysim journal stats`,
	}

	cmd.AddCommand(newJournalListCommand())
	cmd.AddCommand(newJournalStatsCommand())

	return cmd
}

func openJournal() (*persistence.GormEventJournalRepository, *gorm.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, nil, fmt.Errorf("failed to migrate journal: %w", err)
	}
	return persistence.NewGormEventJournalRepository(db, nil), db, nil
}

func newJournalListCommand() *cobra.Command {
	var (
		limit       int
		eventType   string
		executionID string
		since       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent events, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, db, err := openJournal()
			if err != nil {
				return err
			}
			defer database.Close(db)

			query := persistence.JournalQuery{
				Limit:       limit,
				Type:        factory.EventType(eventType),
				ExecutionID: executionID,
			}
			if since > 0 {
				// since is measured back from the newest entry, because
				// simulated time has nothing to do with the wall clock
				newest, err := repo.FindRecent(cmd.Context(), persistence.JournalQuery{Limit: 1})
				if err != nil {
					return err
				}
				if len(newest) > 0 {
					cutoff := newest[0].OccurredAt.Add(-since)
					query.Since = &cutoff
				}
			}

			entries, err := repo.FindRecent(cmd.Context(), query)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No events recorded.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tTYPE\tDETAIL")
			fmt.Fprintln(w, "──\t────\t────\t──────")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.OccurredAt.Format(timeLayout), e.Type, journalDetail(e))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", persistence.DefaultJournalLimit, "Maximum entries to show")
	cmd.Flags().StringVarP(&eventType, "type", "t", "", "Filter by event type (operation.started, operation.completed, material.low_stock, alert)")
	cmd.Flags().StringVar(&executionID, "execution", "", "Filter by execution ID")
	cmd.Flags().DurationVar(&since, "since", 0, "Only entries within this simulated span of the newest one")

	return cmd
}

func newJournalStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count journal entries by type",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, db, err := openJournal()
			if err != nil {
				return err
			}
			defer database.Close(db)

			counts, err := repo.CountByType(cmd.Context())
			if err != nil {
				return err
			}

			types := make([]string, 0, len(counts))
			for t := range counts {
				types = append(types, string(t))
			}
			sort.Strings(types)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tCOUNT")
			for _, t := range types {
				fmt.Fprintf(w, "%s\t%d\n", t, counts[factory.EventType(t)])
			}
			w.Flush()
			return nil
		},
	}
}

func journalDetail(e persistence.JournalEntry) string {
	switch e.Type {
	case factory.OperationStartedEvent:
		cost := ""
		if e.Cost != nil {
			cost = " cost " + e.Cost.String()
		}
		return fmt.Sprintf("%s on %s by %s%s [%s]", e.Operation, e.Machine, e.Worker, cost, e.ExecutionID)
	case factory.OperationCompletedEvent:
		if e.Reconstructed {
			return fmt.Sprintf("%s by %s (untracked)", e.Operation, e.Worker)
		}
		return fmt.Sprintf("%s by %s [%s]", e.Operation, e.Worker, e.ExecutionID)
	case factory.MaterialLowStockEvent:
		return fmt.Sprintf("%s: %d left (minimum %d)", e.Material, e.Quantity, e.MinimumStock)
	case factory.AlertEvent:
		return fmt.Sprintf("%s %s", e.Level, e.Message)
	default:
		return ""
	}
}
