package libemit

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrDuplicateListener = errors.New("duplicate listener")
	ErrNoListener        = errors.New("no listener")
	ErrNilListener       = errors.New("nil listener")
	ErrBridgeClosed      = errors.New("bridge has been closed")
	ErrCannotConnect     = errors.New("connection cannot be established")
)

// ListenerError is returned by Emit when a listener fails. It names the event
// being dispatched and the failing listener. Match it as *ListenerError.
type ListenerError struct {
	err        error
	event      string
	listenerID string
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %s failed on event %q: %s", e.listenerID, e.event, e.err)
}

func (e *ListenerError) Unwrap() error { return e.err }

func (e *ListenerError) Cause() error { return e.err }

func (e *ListenerError) Event() string { return e.event }

func (e *ListenerError) ListenerID() string { return e.listenerID }

func WrapListenerError(err error, event string, l *Listener) *ListenerError {
	if err == nil {
		return nil
	}
	return &ListenerError{
		err:        err,
		event:      event,
		listenerID: l.ID(),
	}
}

func duplicateListener(event string) error {
	return errors.Wrapf(ErrDuplicateListener, "event %q", event)
}

func noListener(event string) error {
	return errors.Wrapf(ErrNoListener, "event %q", event)
}
