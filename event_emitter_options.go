package libemit

// DispatchMode decides what Emit does when a listener fails.
type DispatchMode byte

const (
	// DispatchAbortOnError stops delivery at the first failing listener and returns
	// its error. Panics are not recovered.
	DispatchAbortOnError DispatchMode = iota
	// DispatchIsolated calls every listener regardless of failures, recovers panics
	// and returns all failures aggregated.
	DispatchIsolated
)

func (m DispatchMode) String() string {
	switch m {
	case DispatchAbortOnError:
		return "abort_on_error"
	case DispatchIsolated:
		return "isolated"
	default:
		return "unknown"
	}
}

type Option func(*Registry)

func WithDispatchMode(mode DispatchMode) Option {
	return func(r *Registry) {
		r.mode = mode
	}
}
