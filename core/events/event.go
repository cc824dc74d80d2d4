package events

// Event is a typed notification of a staking state change: a stake locked,
// an exit scheduled, a reward paid. Implementations carry their own payload.
type Event interface {
	EventType() string
}

// Emitter delivers events to downstream consumers such as logs or indexers.
type Emitter interface {
	Emit(Event)
}

// NoopEmitter discards every event. Engines fall back to it when no emitter
// has been wired.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}
