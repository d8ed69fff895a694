package libemit

import (
	"sync"

	"github.com/stretchr/testify/mock"
)

type mockListener struct {
	mock.Mock
}

func (m *mockListener) Handle(args ...any) error {
	ret := m.Called(args...)
	return ret.Error(0)
}

// recorder collects the tags of invoked listeners, in invocation order.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) listener(tag string) *Listener {
	return NewCallback(func(...any) {
		r.mu.Lock()
		r.calls = append(r.calls, tag)
		r.mu.Unlock()
	})
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}
