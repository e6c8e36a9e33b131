package factory

import "time"

// EventType identifies one of the engine's notification channels
type EventType string

const (
	OperationStartedEvent   EventType = "operation.started"
	OperationCompletedEvent EventType = "operation.completed"
	MaterialLowStockEvent   EventType = "material.low_stock"
	AlertEvent              EventType = "alert"
)

// AlertLevel grades general alerts
type AlertLevel string

const (
	AlertLevelInfo    AlertLevel = "INFO"
	AlertLevelWarning AlertLevel = "WARNING"
	AlertLevelError   AlertLevel = "ERROR"
)

// Event is a notification pushed by the engine
type Event interface {
	GetType() EventType
	GetOccurredAt() time.Time
}

// OperationStarted is emitted after an execution has been committed
type OperationStarted struct {
	Execution  Execution `json:"execution"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e OperationStarted) GetType() EventType       { return OperationStartedEvent }
func (e OperationStarted) GetOccurredAt() time.Time { return e.OccurredAt }

// OperationCompleted is emitted when a worker finishes its task.
// Reconstructed is true when no execution record was found and only the
// operation name (from the worker's task) and worker are known.
type OperationCompleted struct {
	Execution     Execution `json:"execution"`
	Reconstructed bool      `json:"reconstructed"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (e OperationCompleted) GetType() EventType       { return OperationCompletedEvent }
func (e OperationCompleted) GetOccurredAt() time.Time { return e.OccurredAt }

// MaterialLowStock is emitted when a material crosses into low stock
type MaterialLowStock struct {
	Material     string    `json:"material"`
	Quantity     int       `json:"quantity"`
	MinimumStock int       `json:"minimum_stock"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (e MaterialLowStock) GetType() EventType       { return MaterialLowStockEvent }
func (e MaterialLowStock) GetOccurredAt() time.Time { return e.OccurredAt }

// Alert is a general-purpose notification
type Alert struct {
	Level      AlertLevel `json:"level"`
	Message    string     `json:"message"`
	OccurredAt time.Time  `json:"occurred_at"`
}

func (e Alert) GetType() EventType       { return AlertEvent }
func (e Alert) GetOccurredAt() time.Time { return e.OccurredAt }
