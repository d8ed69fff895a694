package libemit

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	// ListenerFunc is the body of a listener. It receives every argument passed to Emit.
	ListenerFunc func(args ...any) error

	// Listener is a registration handle. Registries compare listeners by handle,
	// never by the wrapped function, so keep the handle around to remove it later.
	Listener struct {
		id string
		fn ListenerFunc
	}
)

// NewListener wraps fn into a new, distinct handle.
func NewListener(fn ListenerFunc) *Listener {
	return &Listener{
		id: uuid.NewString(),
		fn: fn,
	}
}

// NewCallback wraps a listener body that cannot fail.
func NewCallback(fn func(args ...any)) *Listener {
	return NewListener(func(args ...any) error {
		fn(args...)
		return nil
	})
}

func (l *Listener) ID() string {
	return l.id
}

// Call invokes the listener body. A nil body is a no-op.
func (l *Listener) Call(args ...any) error {
	if l.fn == nil {
		return nil
	}
	return l.fn(args...)
}

func (l *Listener) String() string {
	return fmt.Sprintf("Listener{id=%s}", l.id)
}
