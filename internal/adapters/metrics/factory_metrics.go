package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/factorysim/internal/application/simulation"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
)

// FactoryMetricsCollector turns engine events and status snapshots into
// Prometheus series. It is an engine EventSink and a driver StatusObserver.
type FactoryMetricsCollector struct {
	// Event counters
	operationsStarted   *prometheus.CounterVec
	operationsCompleted *prometheus.CounterVec
	alertsTotal         *prometheus.CounterVec
	lowStockTotal       *prometheus.CounterVec
	costTotal           prometheus.Counter

	// Status gauges
	busyWorkers          prometheus.Gauge
	workersOnBreak       prometheus.Gauge
	busyMachines         prometheus.Gauge
	operationsInProgress prometheus.Gauge
	lowStockMaterials    prometheus.Gauge
	efficiencyPercent    prometheus.Gauge
}

// NewFactoryMetricsCollector creates the collector; call Register to expose it
func NewFactoryMetricsCollector(namespace string) *FactoryMetricsCollector {
	namespace = namespaceOrDefault(namespace)

	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: floorSubsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: floorSubsystem,
			Name:      name,
			Help:      help,
		})
	}

	return &FactoryMetricsCollector{
		operationsStarted:   counterVec("operations_started_total", "Operations started by name", "operation"),
		operationsCompleted: counterVec("operations_completed_total", "Operations completed by name", "operation"),
		alertsTotal:         counterVec("alerts_total", "Alerts raised by level", "level"),
		lowStockTotal:       counterVec("low_stock_events_total", "Times a material crossed into low stock", "material"),
		costTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: floorSubsystem,
			Name:      "cost_total",
			Help:      "Cumulative cost committed by started operations",
		}),

		busyWorkers:          gauge("workers_busy", "Workers currently running a task"),
		workersOnBreak:       gauge("workers_on_break", "Idle workers inside a break window"),
		busyMachines:         gauge("machines_busy", "Machines currently running an operation"),
		operationsInProgress: gauge("operations_in_progress", "Operations started and not yet completed"),
		lowStockMaterials:    gauge("materials_low_stock", "Inventory lines at or below their minimum"),
		efficiencyPercent:    gauge("efficiency_percent", "Share of workers and machines that are busy"),
	}
}

// Register registers all floor metrics with the Prometheus registry
func (c *FactoryMetricsCollector) Register() error {
	return register(
		c.operationsStarted,
		c.operationsCompleted,
		c.alertsTotal,
		c.lowStockTotal,
		c.costTotal,
		c.busyWorkers,
		c.workersOnBreak,
		c.busyMachines,
		c.operationsInProgress,
		c.lowStockMaterials,
		c.efficiencyPercent,
	)
}

// Publish counts one engine event
func (c *FactoryMetricsCollector) Publish(event factory.Event) {
	switch e := event.(type) {
	case factory.OperationStarted:
		c.operationsStarted.WithLabelValues(e.Execution.Operation).Inc()
		// exposition only; the engine keeps the exact decimal total
		c.costTotal.Add(e.Execution.Cost.Float64())
	case factory.OperationCompleted:
		c.operationsCompleted.WithLabelValues(e.Execution.Operation).Inc()
	case factory.MaterialLowStock:
		c.lowStockTotal.WithLabelValues(e.Material).Inc()
	case factory.Alert:
		c.alertsTotal.WithLabelValues(string(e.Level)).Inc()
	}
}

// ObserveStatus refreshes the gauges from a snapshot
func (c *FactoryMetricsCollector) ObserveStatus(status simulation.StatusSnapshot) {
	c.busyWorkers.Set(float64(status.BusyWorkers))
	c.workersOnBreak.Set(float64(status.WorkersOnBreak))
	c.busyMachines.Set(float64(status.BusyMachines))
	c.operationsInProgress.Set(float64(status.OperationsInProgress))
	c.lowStockMaterials.Set(float64(status.LowStockMaterials))
	efficiency, _ := status.Efficiency.Float64()
	c.efficiencyPercent.Set(efficiency)
}
