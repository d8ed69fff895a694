package libemit

// Logger is the logging contract of the components doing I/O. The registry never logs.
type Logger interface {
	WithField(key string, value any) Logger
	Debugf(format string, args ...any)
	Debugln(args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
