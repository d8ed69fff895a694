package libemit

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

type registration struct {
	listener *Listener
	once     bool
	fired    atomic.Bool
}

// Registry is the default Emitter. It maps event names to listeners kept in
// registration order, with no duplicate handle per event. An event name is
// only present while it has at least one listener.
//
// Emit dispatches on a snapshot taken when it starts: listeners removed while
// an Emit is running are still called by that Emit, listeners added are not.
// The lock is never held while listeners run, so listeners may freely call
// back into the registry, Emit included.
type Registry struct {
	listeners map[string][]*registration
	lock      sync.RWMutex
	mode      DispatchMode
}

var _ Emitter = (*Registry)(nil)

// NewRegistry creates an empty Registry. By default, Emit aborts on the first
// listener error.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		listeners: make(map[string][]*registration),
		mode:      DispatchAbortOnError,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// On registers a new listener for the given event.
func (e *Registry) On(event string, l *Listener) error {
	return e.add(event, l, false)
}

// Once registers a listener which is removed right before its first invocation.
func (e *Registry) Once(event string, l *Listener) error {
	return e.add(event, l, true)
}

// Emit calls the listeners of the given event synchronously, in registration
// order, passing args to each. Emitting an event nobody listens to is a no-op.
func (e *Registry) Emit(event string, args ...any) error {
	regs := e.snapshot(event)
	if len(regs) == 0 {
		return nil
	}

	if e.mode == DispatchIsolated {
		return e.emitIsolated(event, regs, args)
	}

	for _, reg := range regs {
		if err := e.invoke(event, reg, args); err != nil {
			return WrapListenerError(err, event, reg.listener)
		}
	}

	return nil
}

// RemoveListener removes the listener from the given event. Unknown events and
// listeners are ignored.
func (e *Registry) RemoveListener(event string, l *Listener) {
	e.remove(event, func(reg *registration) bool {
		return reg.listener == l
	})
}

// RemoveAllListeners drops the given event with all its listeners. Unknown
// events are ignored.
func (e *Registry) RemoveAllListeners(event string) {
	e.lock.Lock()
	defer e.lock.Unlock()

	delete(e.listeners, event)
}

// Clear drops every event, leaving the registry as if freshly created.
func (e *Registry) Clear() {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.listeners = make(map[string][]*registration)
}

// Listeners returns a copy of the listeners registered for the given event.
func (e *Registry) Listeners(event string) ([]*Listener, error) {
	e.lock.RLock()
	defer e.lock.RUnlock()

	regs, found := e.listeners[event]
	if !found {
		return nil, noListener(event)
	}

	res := make([]*Listener, len(regs))
	for i, reg := range regs {
		res[i] = reg.listener
	}
	return res, nil
}

func (e *Registry) HasListener(event string) bool {
	e.lock.RLock()
	defer e.lock.RUnlock()

	_, found := e.listeners[event]
	return found
}

func (e *Registry) ListenerCount(event string) int {
	e.lock.RLock()
	defer e.lock.RUnlock()

	return len(e.listeners[event])
}

// EventNames returns the events having listeners, sorted.
func (e *Registry) EventNames() []string {
	e.lock.RLock()
	defer e.lock.RUnlock()

	return slices.Sorted(maps.Keys(e.listeners))
}

func (e *Registry) add(event string, l *Listener, once bool) error {
	if l == nil {
		return errors.Wrapf(ErrNilListener, "event %q", event)
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	if e.listeners == nil {
		e.listeners = make(map[string][]*registration)
	}

	regs := e.listeners[event]
	if slices.ContainsFunc(regs, func(reg *registration) bool { return reg.listener == l }) {
		return duplicateListener(event)
	}

	e.listeners[event] = append(regs, &registration{listener: l, once: once})
	return nil
}

func (e *Registry) remove(event string, match func(*registration) bool) {
	e.lock.Lock()
	defer e.lock.Unlock()

	regs, found := e.listeners[event]
	if !found {
		return
	}

	idx := slices.IndexFunc(regs, match)
	if idx < 0 {
		return
	}

	regs = slices.Delete(regs, idx, idx+1)
	if len(regs) == 0 {
		delete(e.listeners, event)
		return
	}
	e.listeners[event] = regs
}

func (e *Registry) snapshot(event string) []*registration {
	e.lock.RLock()
	defer e.lock.RUnlock()

	return slices.Clone(e.listeners[event])
}

func (e *Registry) invoke(event string, reg *registration, args []any) error {
	if reg.once {
		// A nested Emit may reach the same registration before it is removed.
		if !reg.fired.CompareAndSwap(false, true) {
			return nil
		}
		e.remove(event, func(other *registration) bool { return other == reg })
	}

	return reg.listener.Call(args...)
}

func (e *Registry) invokeRecover(event string, reg *registration, args []any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Errorf("panic: %v", rec)
		}
	}()

	return e.invoke(event, reg, args)
}

func (e *Registry) emitIsolated(event string, regs []*registration, args []any) error {
	var result *multierror.Error

	for _, reg := range regs {
		if err := e.invokeRecover(event, reg, args); err != nil {
			result = multierror.Append(result, WrapListenerError(err, event, reg.listener))
		}
	}

	return result.ErrorOrNil()
}
