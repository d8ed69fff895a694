package libemit

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	levelDebug = "DEBUG"
	levelInfo  = "INFO"
	levelWarn  = "WARN"
	levelError = "ERROR"
)

// writerLogger writes one line per entry to an io.Writer. Fields are printed
// sorted by key so output is stable.
type writerLogger struct {
	mu     *sync.Mutex
	writer io.Writer
	fields map[string]any
	now    func() time.Time
}

// NewWriterLogger returns a Logger writing to writer, e.g. os.Stderr.
func NewWriterLogger(writer io.Writer) Logger {
	return &writerLogger{
		mu:     &sync.Mutex{},
		writer: writer,
		fields: make(map[string]any),
		now:    time.Now,
	}
}

func (l *writerLogger) WithField(key string, value any) Logger {
	fields := maps.Clone(l.fields)
	fields[key] = value

	return &writerLogger{
		mu:     l.mu,
		writer: l.writer,
		fields: fields,
		now:    l.now,
	}
}

func (l *writerLogger) renderFields() string {
	if len(l.fields) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(l.fields))
	for _, k := range slices.Sorted(maps.Keys(l.fields)) {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, l.fields[k]))
	}
	return " [" + strings.Join(pairs, ", ") + "]"
}

func (l *writerLogger) write(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(
		l.writer,
		"[%s] %s%s: %s\n",
		l.now().Format(time.DateTime),
		level,
		l.renderFields(),
		strings.TrimSuffix(msg, "\n"),
	)
}

func (l *writerLogger) Debugf(format string, args ...any) {
	l.write(levelDebug, fmt.Sprintf(format, args...))
}

func (l *writerLogger) Debugln(args ...any) { l.write(levelDebug, fmt.Sprintln(args...)) }

func (l *writerLogger) Infof(format string, args ...any) {
	l.write(levelInfo, fmt.Sprintf(format, args...))
}

func (l *writerLogger) Warnf(format string, args ...any) {
	l.write(levelWarn, fmt.Sprintf(format, args...))
}

func (l *writerLogger) Errorf(format string, args ...any) {
	l.write(levelError, fmt.Sprintf(format, args...))
}

type noopLogger struct{}

func (n noopLogger) WithField(string, any) Logger { return n }

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Debugln(...any) {}
func (noopLogger) Infof(string, ...any) {}
func (noopLogger) Warnf(string, ...any) {}
func (noopLogger) Errorf(string, ...any) {}
