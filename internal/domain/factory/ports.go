package factory

// EventSink receives engine notifications synchronously, in emission order.
// Implementations must not call back into the engine.
type EventSink interface {
	Publish(event Event)
}

// EventSinkFunc adapts a function to EventSink
type EventSinkFunc func(event Event)

// Publish calls f(event)
func (f EventSinkFunc) Publish(event Event) {
	f(event)
}
