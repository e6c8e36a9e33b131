package events

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/andrescamacho/factorysim/internal/application/logging"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
)

const (
	// Topic carries every engine notification
	Topic = "factory.events"

	// EventTypeMetadataKey names the event type on each message
	EventTypeMetadataKey = "event_type"

	// ExecutionIDMetadataKey is set for operation events so consumers can
	// correlate start and completion without decoding the payload
	ExecutionIDMetadataKey = "execution_id"
)

// WatermillEventPublisher forwards engine events to a watermill publisher as
// JSON messages. It is an engine EventSink.
type WatermillEventPublisher struct {
	publisher message.Publisher
	logger    logging.Logger
}

// NewWatermillEventPublisher wraps pub. A nil logger drops publish failures silently.
func NewWatermillEventPublisher(pub message.Publisher, logger logging.Logger) *WatermillEventPublisher {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &WatermillEventPublisher{publisher: pub, logger: logger}
}

// Publish sends the event; failures are logged because sinks cannot fail the engine
func (p *WatermillEventPublisher) Publish(event factory.Event) {
	msg, err := EncodeEvent(event)
	if err == nil {
		err = p.publisher.Publish(Topic, msg)
	}
	if err != nil {
		p.logger.Log("ERROR", "failed to publish event", map[string]interface{}{
			"event_type": string(event.GetType()),
			"error":      err.Error(),
		})
	}
}

// EncodeEvent builds the watermill message for an event
func EncodeEvent(event factory.Event) (*message.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", event.GetType(), err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(EventTypeMetadataKey, string(event.GetType()))
	switch e := event.(type) {
	case factory.OperationStarted:
		msg.Metadata.Set(ExecutionIDMetadataKey, e.Execution.ID)
	case factory.OperationCompleted:
		msg.Metadata.Set(ExecutionIDMetadataKey, e.Execution.ID)
	}
	return msg, nil
}

// DecodeEvent restores the event carried by msg
func DecodeEvent(msg *message.Message) (factory.Event, error) {
	eventType := factory.EventType(msg.Metadata.Get(EventTypeMetadataKey))

	var err error
	switch eventType {
	case factory.OperationStartedEvent:
		var e factory.OperationStarted
		err = json.Unmarshal(msg.Payload, &e)
		return e, err
	case factory.OperationCompletedEvent:
		var e factory.OperationCompleted
		err = json.Unmarshal(msg.Payload, &e)
		return e, err
	case factory.MaterialLowStockEvent:
		var e factory.MaterialLowStock
		err = json.Unmarshal(msg.Payload, &e)
		return e, err
	case factory.AlertEvent:
		var e factory.Alert
		err = json.Unmarshal(msg.Payload, &e)
		return e, err
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
}
