package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/andrescamacho/factorysim/internal/domain/factory"
)

// EventHandler consumes one decoded event. Returning an error nacks the message.
type EventHandler func(ctx context.Context, event factory.Event) error

// Listen subscribes to Topic and feeds decoded events to handler until ctx
// is cancelled. The returned channel closes once the subscription drains.
func Listen(ctx context.Context, sub message.Subscriber, handler EventHandler) (<-chan struct{}, error) {
	messages, err := sub.Subscribe(ctx, Topic)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range messages {
			event, err := DecodeEvent(msg)
			if err != nil {
				// undecodable messages would be redelivered forever
				msg.Ack()
				continue
			}
			if err := handler(msg.Context(), event); err != nil {
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()
	return done, nil
}
