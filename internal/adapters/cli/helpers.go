package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/andrescamacho/factorysim/internal/application/simulation"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
)

const timeLayout = "2006-01-02 15:04"

// printStatus renders the aggregate snapshot
func printStatus(out io.Writer, status simulation.StatusSnapshot) {
	hours := "no"
	if status.IsWorkingHours {
		hours = "yes"
	}

	fmt.Fprintf(out, "\nFLOOR STATUS at %s (working hours: %s)\n", status.Timestamp.Format(timeLayout), hours)
	fmt.Fprintln(out, "─────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Workers\t%d total\t%d busy\t%d idle\t%d on break\n",
		status.TotalWorkers, status.BusyWorkers, status.IdleWorkers, status.WorkersOnBreak)
	fmt.Fprintf(w, "Machines\t%d total\t%d busy\t\t\n", status.TotalMachines, status.BusyMachines)
	fmt.Fprintf(w, "Materials\t%d lines\t%d low\t\t\n", status.TotalMaterials, status.LowStockMaterials)
	fmt.Fprintf(w, "Operations\t%d completed\t%d in progress\t\t\n", status.OperationsCompleted, status.OperationsInProgress)
	fmt.Fprintf(w, "Total cost\t%s\t\t\t\n", status.TotalCost)
	fmt.Fprintf(w, "Efficiency\t%s%%\t\t\t\n", status.Efficiency.StringFixed(2))
	w.Flush()
}

// printResources renders one row per worker and machine
func printResources(out io.Writer, resources []simulation.ResourceView) {
	fmt.Fprintln(out, "\nRESOURCES")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tSTATUS\tTASK\tCAPABILITY\tHOURLY")
	fmt.Fprintln(w, "────\t────\t──────\t────\t──────────\t──────")
	for _, r := range resources {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Name, r.Kind, r.StatusLabel, r.Task, strings.Join(r.Capability, ", "), r.HourlyCost)
	}
	w.Flush()
}

// printMaterials renders the inventory
func printMaterials(out io.Writer, materials []simulation.MaterialView) {
	fmt.Fprintln(out, "\nMATERIALS")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tQTY\tMIN\tUNIT COST\tVALUE\tLOW")
	fmt.Fprintln(w, "────\t───\t───\t─────────\t─────\t───")
	for _, m := range materials {
		low := ""
		if m.LowStock {
			low = "yes"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\n",
			m.Name, m.Quantity, m.MinimumStock, m.CostPerUnit, m.TotalValue, low)
	}
	w.Flush()
}

// formatEvent renders one engine notification on a single line
func formatEvent(event factory.Event) string {
	at := event.GetOccurredAt().Format(timeLayout)
	switch e := event.(type) {
	case factory.OperationStarted:
		return fmt.Sprintf("%s  START     %s on %s by %s (cost %s, until %s)",
			at, e.Execution.Operation, e.Execution.Machine, e.Execution.Worker,
			e.Execution.Cost, e.Execution.EstimatedEndAt.Format("15:04"))
	case factory.OperationCompleted:
		suffix := ""
		if e.Reconstructed {
			suffix = " (untracked)"
		}
		return fmt.Sprintf("%s  COMPLETE  %s by %s%s", at, e.Execution.Operation, e.Execution.Worker, suffix)
	case factory.MaterialLowStock:
		return fmt.Sprintf("%s  LOW STOCK %s: %d left (minimum %d)", at, e.Material, e.Quantity, e.MinimumStock)
	case factory.Alert:
		return fmt.Sprintf("%s  %-9s %s", at, e.Level, e.Message)
	default:
		return fmt.Sprintf("%s  %s", at, event.GetType())
	}
}

func formatDuration(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", d/time.Hour)
	}
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		return strings.TrimSuffix(s, "0s")
	}
	return s
}
