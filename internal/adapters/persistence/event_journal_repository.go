package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/factorysim/internal/application/logging"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

// EventJournal stores engine notifications for later inspection. The journal
// is write-only from the engine's point of view; nothing is ever replayed.
type EventJournal interface {
	Append(ctx context.Context, event factory.Event) error
	FindRecent(ctx context.Context, query JournalQuery) ([]JournalEntry, error)
	CountByType(ctx context.Context) (map[factory.EventType]int64, error)
}

// JournalQuery filters FindRecent. Zero values mean "no filter".
type JournalQuery struct {
	Limit       int
	Type        factory.EventType
	ExecutionID string
	Since       *time.Time
}

// JournalEntry is one stored notification
type JournalEntry struct {
	ID            int64
	Type          factory.EventType
	OccurredAt    time.Time
	ExecutionID   string
	Operation     string
	Worker        string
	Machine       string
	Cost          *shared.Money
	Reconstructed bool
	Material      string
	Quantity      int
	MinimumStock  int
	Level         factory.AlertLevel
	Message       string
}

// DefaultJournalLimit caps FindRecent when no limit is given
const DefaultJournalLimit = 50

// GormEventJournalRepository is the GORM-backed journal. It also satisfies
// factory.EventSink so it can be subscribed to the engine directly.
type GormEventJournalRepository struct {
	db     *gorm.DB
	logger logging.Logger
}

// NewGormEventJournalRepository creates a journal over db. A nil logger
// discards write failures reported from Publish.
func NewGormEventJournalRepository(db *gorm.DB, logger logging.Logger) *GormEventJournalRepository {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &GormEventJournalRepository{db: db, logger: logger}
}

// Publish appends the event. Sinks cannot fail the engine, so write errors
// are logged and dropped.
func (r *GormEventJournalRepository) Publish(event factory.Event) {
	if err := r.Append(context.Background(), event); err != nil {
		r.logger.Log("ERROR", "failed to journal event", map[string]interface{}{
			"event_type": string(event.GetType()),
			"error":      err.Error(),
		})
	}
}

// Append stores one event
func (r *GormEventJournalRepository) Append(ctx context.Context, event factory.Event) error {
	model, err := toEventModel(event)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append %s event: %w", event.GetType(), err)
	}
	return nil
}

// FindRecent returns the newest entries first
func (r *GormEventJournalRepository) FindRecent(ctx context.Context, query JournalQuery) ([]JournalEntry, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultJournalLimit
	}

	q := r.db.WithContext(ctx).Model(&EventModel{})
	if query.Type != "" {
		q = q.Where("event_type = ?", string(query.Type))
	}
	if query.ExecutionID != "" {
		q = q.Where("execution_id = ?", query.ExecutionID)
	}
	if query.Since != nil {
		q = q.Where("occurred_at >= ?", *query.Since)
	}

	var models []EventModel
	if err := q.Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	entries := make([]JournalEntry, 0, len(models))
	for _, m := range models {
		entry, err := toJournalEntry(m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// CountByType returns how many events of each type were stored
func (r *GormEventJournalRepository) CountByType(ctx context.Context) (map[factory.EventType]int64, error) {
	var rows []struct {
		EventType string
		Total     int64
	}
	err := r.db.WithContext(ctx).
		Model(&EventModel{}).
		Select("event_type, COUNT(*) AS total").
		Group("event_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count journal events: %w", err)
	}

	counts := make(map[factory.EventType]int64, len(rows))
	for _, row := range rows {
		counts[factory.EventType(row.EventType)] = row.Total
	}
	return counts, nil
}

func toEventModel(event factory.Event) (*EventModel, error) {
	model := &EventModel{
		EventType:  string(event.GetType()),
		OccurredAt: event.GetOccurredAt(),
	}

	switch e := event.(type) {
	case factory.OperationStarted:
		fillExecution(model, e.Execution)
	case factory.OperationCompleted:
		fillExecution(model, e.Execution)
		model.Reconstructed = e.Reconstructed
	case factory.MaterialLowStock:
		model.Material = e.Material
		model.Quantity = e.Quantity
		model.MinimumStock = e.MinimumStock
	case factory.Alert:
		model.Level = string(e.Level)
		model.Message = e.Message
	default:
		return nil, fmt.Errorf("unsupported event type %T", event)
	}
	return model, nil
}

func fillExecution(model *EventModel, exec factory.Execution) {
	model.ExecutionID = exec.ID
	model.Operation = exec.Operation
	model.Worker = exec.Worker
	model.Machine = exec.Machine
	if exec.ID != "" {
		model.Cost = exec.Cost.Decimal().String()
	}
}

func toJournalEntry(m EventModel) (JournalEntry, error) {
	entry := JournalEntry{
		ID:            m.ID,
		Type:          factory.EventType(m.EventType),
		OccurredAt:    m.OccurredAt,
		ExecutionID:   m.ExecutionID,
		Operation:     m.Operation,
		Worker:        m.Worker,
		Machine:       m.Machine,
		Reconstructed: m.Reconstructed,
		Material:      m.Material,
		Quantity:      m.Quantity,
		MinimumStock:  m.MinimumStock,
		Level:         factory.AlertLevel(m.Level),
		Message:       m.Message,
	}
	if m.Cost != "" {
		cost, err := shared.ParseMoney(m.Cost)
		if err != nil {
			return JournalEntry{}, fmt.Errorf("journal entry %d: %w", m.ID, err)
		}
		entry.Cost = &cost
	}
	return entry, nil
}
