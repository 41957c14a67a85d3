// Package emlog provides structured logging for beebcore using zap.
package emlog

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with beebcore-specific helpers.
type Logger struct {
	*zap.Logger
	onTrace func(pc uint16, category, name, detail string) // trace callback for instruction/trap events
}

var (
	// L is the global logger instance.
	L    *Logger
	once sync.Once
)

// Init initializes the global logger with the given configuration.
// Safe to call multiple times; only the first call takes effect.
func Init(debug bool) {
	once.Do(func() {
		L = New(debug)
	})
}

// New creates a new Logger instance.
func New(debug bool) *Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		logger = zap.NewNop()
	}

	return &Logger{Logger: logger}
}

// NewNop creates a no-op logger for testing.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// SetOnTrace sets the trace callback for instruction/trap events.
func (l *Logger) SetOnTrace(fn func(pc uint16, category, name, detail string)) {
	l.onTrace = fn
}

// Trace logs an instruction or trap event and calls the trace callback if set.
func (l *Logger) Trace(pc uint16, category, name, detail string) {
	if l.onTrace != nil {
		l.onTrace(pc, category, name, detail)
	}

	l.Debug("trace",
		zap.String("cat", category),
		zap.String("fn", name),
		zap.String("detail", detail),
		zap.Uint16("pc", pc),
	)
}

// HookInstalled logs when a hook is installed over a half-open address
// range. end may be 0x10000, so the bounds are plain ints.
func (l *Logger) HookInstalled(kind string, begin, end int) {
	l.Debug("hook installed",
		zap.String("kind", kind),
		zap.Int("begin", begin),
		zap.Int("end", end),
	)
}

// TrapInstalled logs when a host-service handler is bound to a code
// address.
func (l *Logger) TrapInstalled(name string, addr uint16) {
	l.Debug("trap installed",
		zap.String("name", name),
		zap.String("addr", Hex(addr)),
	)
}

// TrapDispatched records a host trap handling (or declining) a call. Routed
// through Trace so a trace sink installed with SetOnTrace sees trap events
// interleaved with instruction events.
func (l *Logger) TrapDispatched(name string, addr uint16, handled bool) {
	detail := "handled"
	if !handled {
		detail = "fallthrough"
	}
	l.Trace(addr, "trap", name, detail)
}

// WithCategory returns a logger with the category field preset.
func (l *Logger) WithCategory(category string) *Logger {
	return &Logger{
		Logger:  l.Logger.With(zap.String("cat", category)),
		onTrace: l.onTrace,
	}
}

// Hex formats a 16-bit address as a hex string for logging, e.g. "0xe0a4".
func Hex(addr uint16) string {
	const digits = "0123456789abcdef"
	buf := [4]byte{digits[0], digits[0], digits[0], digits[0]}
	v := addr
	for i := 3; i >= 0; i-- {
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	return "0x" + string(buf[:])
}
