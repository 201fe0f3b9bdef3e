package log

import (
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// We only need "goroutine NNN" from the first stack line.
	minStackBufSize = 32
	// Shortest stack header that can still carry an id.
	minStackTraceLen = 12
	// len("goroutine ").
	goroutinePrefixLen = 10
	consoleTimeFormat  = "15:04:05"
)

var (
	Logger        zerolog.Logger
	goroutinePool sync.Pool
)

// Options controls how the process-wide logger writes events.
type Options struct {
	Level  zerolog.Level
	JSON   bool
	Output io.Writer
}

func init() {
	goroutinePool.New = func() interface{} {
		return make([]byte, minStackBufSize)
	}

	Configure(Options{Level: zerolog.InfoLevel})
}

// goroutineID parses the current goroutine id out of a truncated stack header.
func goroutineID() string {
	buf, ok := goroutinePool.Get().([]byte)
	if !ok {
		return "unknown"
	}
	defer goroutinePool.Put(buf) //nolint:staticcheck // buf is a slice, this is the correct usage

	stackLen := runtime.Stack(buf, false)
	if stackLen < minStackTraceLen || goroutinePrefixLen >= stackLen {
		return "unknown"
	}

	idx := goroutinePrefixLen
	start := idx
	for idx < stackLen && buf[idx] >= '0' && buf[idx] <= '9' {
		idx++
	}

	if idx > start {
		return string(buf[start:idx])
	}
	return "unknown"
}

func goroutineHook() zerolog.Hook {
	return zerolog.HookFunc(func(e *zerolog.Event, _ zerolog.Level, _ string) {
		e.Str("goid", goroutineID())
	})
}

// Configure rebuilds the process-wide logger. Console output is the default;
// JSON switches to one event per line for log shippers.
func Configure(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: consoleTimeFormat}
	}

	Logger = zerolog.New(out).
		Level(opts.Level).
		With().
		Timestamp().
		Logger().
		Hook(goroutineHook())

	log.Logger = Logger
}

// Info logs an info message with goroutine ID.
func Info() *zerolog.Event {
	return Logger.Info()
}

// Error logs an error message with goroutine ID.
func Error() *zerolog.Event {
	return Logger.Error()
}

// Warn logs a warning message with goroutine ID.
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Debug logs a debug message with goroutine ID.
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Fatal logs a fatal message with goroutine ID and exits.
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}
