package libemit

// Emitter maps event names to ordered listeners and dispatches to them synchronously.
type Emitter interface {
	// On registers a listener for the given event. Registering the same handle
	// twice for one event fails with ErrDuplicateListener.
	On(event string, l *Listener) error

	// Once registers a listener that is removed before its first invocation.
	Once(event string, l *Listener) error

	// Emit calls every listener registered for the given event, in registration order.
	Emit(event string, args ...any) error

	// RemoveListener removes the listener from the given event, if present.
	RemoveListener(event string, l *Listener)

	// RemoveAllListeners removes every listener of the given event.
	RemoveAllListeners(event string)

	// Clear removes every listener of every event.
	Clear()

	// Listeners returns a copy of the listeners of the given event, or
	// ErrNoListener when there are none.
	Listeners(event string) ([]*Listener, error)

	HasListener(event string) bool
	ListenerCount(event string) int
	EventNames() []string
}

// Noop is an Emitter that keeps nothing and calls nobody.
type Noop struct{}

func (Noop) On(string, *Listener) error { return nil }

func (Noop) Once(string, *Listener) error { return nil }

func (Noop) Emit(string, ...any) error { return nil }

func (Noop) RemoveListener(string, *Listener) {}

func (Noop) RemoveAllListeners(string) {}

func (Noop) Clear() {}

func (Noop) Listeners(event string) ([]*Listener, error) { return nil, noListener(event) }

func (Noop) HasListener(string) bool { return false }

func (Noop) ListenerCount(string) int { return 0 }

func (Noop) EventNames() []string { return nil }
