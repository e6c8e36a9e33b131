package events

import "github.com/andrescamacho/factorysim/internal/domain/factory"

// FanOutSink delivers every event to each sink in order
type FanOutSink []factory.EventSink

// Publish forwards the event to every non-nil sink
func (f FanOutSink) Publish(event factory.Event) {
	for _, sink := range f {
		if sink != nil {
			sink.Publish(event)
		}
	}
}
