package persistence

import (
	"time"
)

// EventModel represents the factory_events table. One row per engine
// notification; columns that do not apply to an event type stay empty.
type EventModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EventType     string    `gorm:"column:event_type;not null;index"`
	OccurredAt    time.Time `gorm:"column:occurred_at;not null;index"`
	ExecutionID   string    `gorm:"column:execution_id;index"`
	Operation     string    `gorm:"column:operation"`
	Worker        string    `gorm:"column:worker"`
	Machine       string    `gorm:"column:machine"`
	Cost          string    `gorm:"column:cost"` // decimal as text, exact
	Reconstructed bool      `gorm:"column:reconstructed;not null;default:false"`
	Material      string    `gorm:"column:material"`
	Quantity      int       `gorm:"column:quantity"`
	MinimumStock  int       `gorm:"column:minimum_stock"`
	Level         string    `gorm:"column:level"`
	Message       string    `gorm:"column:message;type:text"`
}

func (EventModel) TableName() string {
	return "factory_events"
}
